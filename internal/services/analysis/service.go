package analysis

import (
	"context"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/internal/symbols"
	"chartwatch/pkg/logger"
)

// FundamentalsCache is the optional cache-aside store for slow-moving
// fundamental attributes. Implemented by the redis repository.
type FundamentalsCache interface {
	Get(ctx context.Context, symbol string) (*marketdata.Fundamentals, error)
	Save(ctx context.Context, symbol string, fund *marketdata.Fundamentals) error
}

// Service orchestrates one analysis request: normalize the ticker, fetch
// the price history, run the indicator set and assemble the report.
// Stateless; safe for concurrent use.
type Service struct {
	provider   marketdata.Provider
	normalizer *symbols.Normalizer
	cache      FundamentalsCache
	cfg        Config
	log        *logger.Logger
}

// NewService creates an analysis service. cache may be nil to disable
// fundamentals caching.
func NewService(
	provider marketdata.Provider,
	normalizer *symbols.Normalizer,
	cache FundamentalsCache,
	cfg Config,
	log *logger.Logger,
) *Service {
	return &Service{
		provider:   provider,
		normalizer: normalizer,
		cache:      cache,
		cfg:        cfg.withDefaults(),
		log:        log,
	}
}

// Analyze produces the full report for a ticker. Normalization and provider
// errors propagate unmodified so the handler can map them to status codes;
// fundamentals failures only degrade the report.
func (s *Service) Analyze(ctx context.Context, ticker string, class marketdata.AssetClass) (*Report, error) {
	req, err := s.normalizer.Normalize(ticker, class)
	if err != nil {
		return nil, err
	}

	series, err := s.provider.FetchPriceHistory(ctx, req)
	if err != nil {
		return nil, err
	}

	var fund *marketdata.Fundamentals
	if req.Class == marketdata.AssetClassStock {
		fund = s.loadFundamentals(ctx, req)
	}

	return Build(series, req, fund, s.cfg), nil
}

// loadFundamentals is cache-aside: a miss or any cache failure falls
// through to the provider, and a provider failure yields a report without
// fundamentals rather than an error.
func (s *Service) loadFundamentals(ctx context.Context, req marketdata.SymbolRequest) *marketdata.Fundamentals {
	if s.cache != nil {
		if fund, err := s.cache.Get(ctx, req.Ticker); err == nil && fund != nil {
			return fund
		}
	}

	fund, err := s.provider.FetchFundamentals(ctx, req)
	if err != nil {
		s.log.Warnf("fundamentals unavailable for %s: %v", req.Ticker, err)
		return nil
	}
	if fund == nil {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, req.Ticker, fund); err != nil {
			s.log.Warnf("fundamentals cache save failed for %s: %v", req.Ticker, err)
		}
	}

	return fund
}
