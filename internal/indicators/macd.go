package indicators

import (
	"chartwatch/internal/domain/marketdata"
	"chartwatch/pkg/errors"
)

const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9

	// DefaultMACDHistory bounds the histogram history exposed in results.
	DefaultMACDHistory = 30
)

// MACDPoint is one labeled histogram observation for display.
type MACDPoint struct {
	Label     string
	Histogram float64
}

// MACDResult holds the current line/signal/histogram values, a trend
// classification and a bounded histogram history, oldest first.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
	Analysis  TrendSignal
	History   []MACDPoint
}

// MACD computes the 12/26 EMA convergence-divergence with a 9-period signal
// line over the full chronological series. Requires at least 26 samples.
func MACD(series *marketdata.PriceSeries, historyLength int) (MACDResult, error) {
	if series.Len() < macdSlowPeriod {
		return MACDResult{}, errors.Wrapf(errors.ErrInsufficientData,
			"macd: need %d samples, have %d", macdSlowPeriod, series.Len())
	}
	if historyLength <= 0 {
		historyLength = DefaultMACDHistory
	}

	closes := series.Closes()
	fast := emaSeries(closes, macdFastPeriod)
	slow := emaSeries(closes, macdSlowPeriod)

	line := make([]float64, len(closes))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	signal := emaSeries(line, macdSignalPeriod)

	histogram := make([]float64, len(line))
	for i := range histogram {
		histogram[i] = line[i] - signal[i]
	}

	last := len(line) - 1
	res := MACDResult{
		MACD:      line[last],
		Signal:    signal[last],
		Histogram: histogram[last],
	}

	switch {
	case res.MACD > res.Signal && res.Histogram > 0:
		res.Analysis = TrendBullish
	case res.MACD < res.Signal && res.Histogram < 0:
		res.Analysis = TrendBearish
	default:
		res.Analysis = TrendNeutral
	}

	start := len(histogram) - historyLength
	if start < 0 {
		start = 0
	}
	dates := series.Dates()
	res.History = make([]MACDPoint, 0, len(histogram)-start)
	for i := start; i < len(histogram); i++ {
		res.History = append(res.History, MACDPoint{
			Label:     dates[i].Format("Jan 02"),
			Histogram: histogram[i],
		})
	}

	return res, nil
}
