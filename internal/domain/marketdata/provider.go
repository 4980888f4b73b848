package marketdata

import (
	"context"
)

// Provider defines the interface for upstream price-data sources.
// Implementations live under internal/adapters/providers.
type Provider interface {
	// Name returns the provider identifier used in config and metrics.
	Name() string

	// FetchPriceHistory retrieves the daily closing-price history for a
	// normalized symbol. Fails with ErrNoData, ErrRateLimited or
	// ErrUpstreamUnavailable.
	FetchPriceHistory(ctx context.Context, req SymbolRequest) (*PriceSeries, error)

	// FetchFundamentals retrieves optional fundamental attributes.
	// Equities only; returns (nil, nil) when the provider has nothing.
	FetchFundamentals(ctx context.Context, req SymbolRequest) (*Fundamentals, error)
}
