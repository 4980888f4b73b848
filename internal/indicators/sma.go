package indicators

import (
	"github.com/markcheno/go-talib"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/pkg/errors"
)

// SMA returns the arithmetic mean of the most recent window samples.
// No smoothing state is carried between calls; this is a pure windowed
// average over the snapshot passed in.
func SMA(series *marketdata.PriceSeries, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "sma: window %d", window)
	}
	if series.Len() < window {
		return 0, errors.Wrapf(errors.ErrInsufficientData,
			"sma: need %d samples, have %d", window, series.Len())
	}

	out := talib.Sma(series.Closes(), window)
	return out[len(out)-1], nil
}
