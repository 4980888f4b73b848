package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/internal/indicators"
)

// Config selects the indicator parameters a report is built with.
type Config struct {
	SMAWindows  []int
	EMAWindow   int
	RSIPeriod   int
	BBPeriod    int
	MACDHistory int
}

// DefaultConfig returns the standard report parameters.
func DefaultConfig() Config {
	return Config{
		SMAWindows:  []int{20, 50},
		EMAWindow:   20,
		RSIPeriod:   14,
		BBPeriod:    20,
		MACDHistory: indicators.DefaultMACDHistory,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.SMAWindows) == 0 {
		c.SMAWindows = def.SMAWindows
	}
	if c.EMAWindow <= 0 {
		c.EMAWindow = def.EMAWindow
	}
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = def.RSIPeriod
	}
	if c.BBPeriod <= 0 {
		c.BBPeriod = def.BBPeriod
	}
	if c.MACDHistory <= 0 {
		c.MACDHistory = def.MACDHistory
	}
	return c
}

// Report is the serialized analysis payload. All numeric fields are fixed
// to 2 decimal places as strings to avoid floating-point display drift.
// An indicator that could not be determined serializes as null.
type Report struct {
	Ticker              string               `json:"ticker"`
	LastClose           string               `json:"lastClose"`
	Currency            string               `json:"currency"`
	TechnicalAnalysis   TechnicalAnalysis    `json:"technicalAnalysis"`
	FundamentalAnalysis *FundamentalAnalysis `json:"fundamentalAnalysis"`
}

type TechnicalAnalysis struct {
	MovingAverages map[string]string `json:"movingAverages"`
	RSI            *RSIReport        `json:"rsi"`
	BollingerBands *BollingerReport  `json:"bollingerBands"`
	MACD           *MACDReport       `json:"macd"`
}

type RSIReport struct {
	Value  string `json:"value"`
	Signal string `json:"signal"`
}

type BollingerReport struct {
	Upper  string `json:"upper"`
	Middle string `json:"middle"`
	Lower  string `json:"lower"`
	Signal string `json:"signal"`
}

type MACDReport struct {
	MACD      string            `json:"macd"`
	Signal    string            `json:"signal"`
	Histogram string            `json:"histogram"`
	Analysis  string            `json:"analysis"`
	History   []MACDHistoryItem `json:"history"`
}

type MACDHistoryItem struct {
	Label     string `json:"label"`
	Histogram string `json:"histogram"`
}

type FundamentalAnalysis struct {
	MarketCap        string `json:"marketCap"`
	PERatio          string `json:"peRatio"`
	EPS              string `json:"eps"`
	AnalystTarget    string `json:"analystTarget"`
	FiftyTwoWeekHigh string `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  string `json:"fiftyTwoWeekLow"`
	Description      string `json:"description"`
}

// Build composes the indicator results and optional fundamentals into one
// report. Indicator-level insufficiency downgrades that indicator to null;
// it never fails the report. lastClose is stamped from the series itself.
func Build(series *marketdata.PriceSeries, req marketdata.SymbolRequest, fund *marketdata.Fundamentals, cfg Config) *Report {
	cfg = cfg.withDefaults()

	report := &Report{
		Ticker:    req.Ticker,
		LastClose: fixed(series.Last().Close),
		Currency:  req.Currency,
		TechnicalAnalysis: TechnicalAnalysis{
			MovingAverages: buildMovingAverages(series, cfg),
		},
	}

	if rsi, err := indicators.RSI(series, cfg.RSIPeriod); err == nil {
		report.TechnicalAnalysis.RSI = &RSIReport{
			Value:  fixed(rsi.Value),
			Signal: string(rsi.Signal),
		}
	}

	if bb, err := indicators.Bollinger(series, cfg.BBPeriod); err == nil {
		report.TechnicalAnalysis.BollingerBands = &BollingerReport{
			Upper:  fixed(bb.Upper),
			Middle: fixed(bb.Middle),
			Lower:  fixed(bb.Lower),
			Signal: string(bb.Signal),
		}
	}

	if macd, err := indicators.MACD(series, cfg.MACDHistory); err == nil {
		history := make([]MACDHistoryItem, 0, len(macd.History))
		for _, p := range macd.History {
			history = append(history, MACDHistoryItem{
				Label:     p.Label,
				Histogram: fixed(p.Histogram),
			})
		}
		report.TechnicalAnalysis.MACD = &MACDReport{
			MACD:      fixed(macd.MACD),
			Signal:    fixed(macd.Signal),
			Histogram: fixed(macd.Histogram),
			Analysis:  string(macd.Analysis),
			History:   history,
		}
	}

	if fund != nil && req.Class == marketdata.AssetClassStock {
		report.FundamentalAnalysis = &FundamentalAnalysis{
			MarketCap:        fixed(fund.MarketCap),
			PERatio:          fixed(fund.PERatio),
			EPS:              fixed(fund.EPS),
			AnalystTarget:    fixed(fund.AnalystTarget),
			FiftyTwoWeekHigh: fixed(fund.WeekHigh52),
			FiftyTwoWeekLow:  fixed(fund.WeekLow52),
			Description:      fund.Description,
		}
	}

	return report
}

func buildMovingAverages(series *marketdata.PriceSeries, cfg Config) map[string]string {
	out := make(map[string]string, len(cfg.SMAWindows)+1)

	for _, window := range cfg.SMAWindows {
		if value, err := indicators.SMA(series, window); err == nil {
			out[fmt.Sprintf("sma%d", window)] = fixed(value)
		}
	}

	if ema := indicators.EMA(series, cfg.EMAWindow); len(ema) > 0 {
		out[fmt.Sprintf("ema%d", cfg.EMAWindow)] = fixed(ema[len(ema)-1])
	}

	return out
}

func fixed(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}
