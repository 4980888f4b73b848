package indicators

import (
	"github.com/markcheno/go-talib"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/pkg/errors"
)

// BollingerResult holds the 2-sigma volatility envelope around SMA(period)
// and where the latest close sits relative to it.
type BollingerResult struct {
	Upper  float64
	Middle float64
	Lower  float64
	Signal BandSignal
}

// Bollinger computes Bollinger Bands over the trailing period window.
// Standard deviation is population (divisor = period), which is what
// talib.BBands computes. Requires at least period samples.
func Bollinger(series *marketdata.PriceSeries, period int) (BollingerResult, error) {
	if period <= 0 {
		return BollingerResult{}, errors.Wrapf(errors.ErrInvalidInput, "bollinger: period %d", period)
	}
	if series.Len() < period {
		return BollingerResult{}, errors.Wrapf(errors.ErrInsufficientData,
			"bollinger: need %d samples, have %d", period, series.Len())
	}

	upper, middle, lower := talib.BBands(series.Closes(), period, 2.0, 2.0, talib.SMA)
	last := len(upper) - 1

	res := BollingerResult{
		Upper:  upper[last],
		Middle: middle[last],
		Lower:  lower[last],
	}

	// Strict comparisons: a flat series sits exactly on all three bands and
	// must still read as inside them.
	price := series.Last().Close
	switch {
	case price > res.Upper:
		res.Signal = BandAbove
	case price < res.Lower:
		res.Signal = BandBelow
	default:
		res.Signal = BandIn
	}

	return res, nil
}
