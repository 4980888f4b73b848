package indicators

// RSISignal classifies the momentum oscillator reading.
type RSISignal string

const (
	RSIOversold            RSISignal = "Oversold"
	RSINeutral             RSISignal = "Neutral"
	RSIOverbought          RSISignal = "Overbought"
	RSIExtremelyOverbought RSISignal = "Extremely Overbought"
)

// BandSignal places the latest price relative to the Bollinger envelope.
type BandSignal string

const (
	BandAbove BandSignal = "Above Bands"
	BandIn    BandSignal = "In Bands"
	BandBelow BandSignal = "Below Bands"
)

// TrendSignal summarizes MACD line/signal/histogram alignment.
type TrendSignal string

const (
	TrendBullish TrendSignal = "Bullish Momentum"
	TrendBearish TrendSignal = "Bearish Momentum"
	TrendNeutral TrendSignal = "Neutral"
)
