package indicators

import (
	"chartwatch/internal/domain/marketdata"
)

// EMA returns the full exponentially smoothed series, oldest first, one
// value per input sample. Returns an empty sequence when the series is
// shorter than window.
//
// The recurrence seeds from the single oldest sample rather than an initial
// window average, so the first values lean toward the oldest observed price.
// Kept this way for compatibility with historical report output; callers
// should treat the leading elements as less reliable.
func EMA(series *marketdata.PriceSeries, window int) []float64 {
	if window <= 0 || series.Len() < window {
		return nil
	}
	return emaSeries(series.Closes(), window)
}

// emaSeries applies the smoothing recurrence over a raw chronological slice.
// Shared with MACD, which smooths its own derived lines.
func emaSeries(values []float64, window int) []float64 {
	if len(values) == 0 {
		return nil
	}
	k := 2.0 / (float64(window) + 1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}
