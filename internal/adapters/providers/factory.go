package providers

import (
	"strings"

	"chartwatch/internal/adapters/config"
	"chartwatch/internal/adapters/providers/alphavantage"
	"chartwatch/internal/adapters/providers/twelvedata"
	"chartwatch/internal/domain/marketdata"
	"chartwatch/pkg/errors"
)

// New selects and constructs the configured upstream provider. One adapter
// with a pluggable provider strategy replaces per-provider handler copies.
func New(cfg config.ProviderConfig) (marketdata.Provider, error) {
	switch strings.ToLower(cfg.Active) {
	case "alphavantage":
		return alphavantage.NewClient(alphavantage.Config{
			APIKey:            cfg.AlphaVantageAPIKey,
			BaseURL:           cfg.AlphaVantageBaseURL,
			RequestsPerMinute: cfg.AlphaVantageRPM,
		})
	case "twelvedata":
		return twelvedata.NewClient(twelvedata.Config{
			APIKey:            cfg.TwelveDataAPIKey,
			BaseURL:           cfg.TwelveDataBaseURL,
			RequestsPerMinute: cfg.TwelveDataRPM,
		})
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown data provider %q", cfg.Active)
	}
}
