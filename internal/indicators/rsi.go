package indicators

import (
	"chartwatch/internal/domain/marketdata"
	"chartwatch/pkg/errors"
)

// RSIResult holds the oscillator value in [0,100] and its classification.
type RSIResult struct {
	Value  float64
	Signal RSISignal
}

// RSI computes the Wilder-smoothed Relative Strength Index: average
// gain/loss seeded from the oldest period deltas, then smoothed forward one
// day at a time toward the most recent sample. Requires strictly more than
// period samples.
func RSI(series *marketdata.PriceSeries, period int) (RSIResult, error) {
	if period <= 0 {
		return RSIResult{}, errors.Wrapf(errors.ErrInvalidInput, "rsi: period %d", period)
	}
	if series.Len() <= period {
		return RSIResult{}, errors.Wrapf(errors.ErrInsufficientData,
			"rsi: need more than %d samples, have %d", period, series.Len())
	}

	closes := series.Closes()

	gains, losses := 0.0, 0.0
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses += -delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		// All-gain history: the gain/loss ratio is undefined and RSI pegs
		// at the ceiling.
		return RSIResult{Value: 100, Signal: RSIExtremelyOverbought}, nil
	}

	value := 100 - 100/(1+avgGain/avgLoss)
	return RSIResult{Value: value, Signal: classifyRSI(value)}, nil
}

func classifyRSI(value float64) RSISignal {
	switch {
	case value > 70:
		return RSIOverbought
	case value < 30:
		return RSIOversold
	default:
		return RSINeutral
	}
}
