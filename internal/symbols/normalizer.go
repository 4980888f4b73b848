package symbols

import (
	"strings"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/pkg/errors"
)

// Config controls how user-supplied tickers map onto provider symbols.
// The default-market suffix is a policy choice for equities without an
// explicit exchange qualifier, not a universal rule.
type Config struct {
	IndexAliases        map[string]string
	DefaultMarketSuffix string
	EquityCurrency      string
	CryptoQuoteCurrency string
}

// DefaultConfig returns the shipped normalization policy: NSE-suffixed
// equities quoted in INR, USD-quoted crypto, and the common Indian index
// aliases rewritten to their reserved provider symbols.
func DefaultConfig() Config {
	return Config{
		IndexAliases: map[string]string{
			"NIFTY":     "NSEI",
			"NIFTY50":   "NSEI",
			"BANKNIFTY": "NSEBANK",
			"SENSEX":    "BSESN",
		},
		DefaultMarketSuffix: ".NS",
		EquityCurrency:      "INR",
		CryptoQuoteCurrency: "USD",
	}
}

// Normalizer maps a generic (ticker, asset class) pair into the canonical
// request form a provider expects and resolves the quote currency.
type Normalizer struct {
	cfg Config
}

// New creates a normalizer, filling unset config fields from defaults.
func New(cfg Config) *Normalizer {
	def := DefaultConfig()
	if cfg.IndexAliases == nil {
		cfg.IndexAliases = def.IndexAliases
	}
	if cfg.DefaultMarketSuffix == "" {
		cfg.DefaultMarketSuffix = def.DefaultMarketSuffix
	}
	if cfg.EquityCurrency == "" {
		cfg.EquityCurrency = def.EquityCurrency
	}
	if cfg.CryptoQuoteCurrency == "" {
		cfg.CryptoQuoteCurrency = def.CryptoQuoteCurrency
	}
	return &Normalizer{cfg: cfg}
}

// Normalize resolves the provider symbol and quote currency for a ticker.
// Fails with ErrInvalidTicker for malformed input and ErrInvalidAssetClass
// for unknown classes.
func (n *Normalizer) Normalize(ticker string, class marketdata.AssetClass) (marketdata.SymbolRequest, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return marketdata.SymbolRequest{}, errors.Wrap(errors.ErrInvalidTicker, "empty ticker")
	}

	switch class {
	case marketdata.AssetClassStock:
		if alias, ok := n.cfg.IndexAliases[t]; ok {
			return marketdata.SymbolRequest{
				Ticker:   alias,
				Class:    class,
				Currency: n.cfg.EquityCurrency,
			}, nil
		}
		// No exchange qualifier: assume the default market.
		if !strings.Contains(t, ".") {
			t += n.cfg.DefaultMarketSuffix
		}
		return marketdata.SymbolRequest{
			Ticker:   t,
			Class:    class,
			Currency: n.cfg.EquityCurrency,
		}, nil

	case marketdata.AssetClassCrypto:
		base := strings.TrimSuffix(t, "/"+n.cfg.CryptoQuoteCurrency)
		return marketdata.SymbolRequest{
			Ticker:   base + "/" + n.cfg.CryptoQuoteCurrency,
			Class:    class,
			Currency: n.cfg.CryptoQuoteCurrency,
		}, nil

	case marketdata.AssetClassForex:
		if len(t) != 6 {
			return marketdata.SymbolRequest{}, errors.Wrapf(errors.ErrInvalidTicker,
				"forex pair must be 6 characters, got %q", ticker)
		}
		base, quote := t[:3], t[3:]
		return marketdata.SymbolRequest{
			Ticker:   base + "/" + quote,
			Class:    class,
			Currency: quote,
		}, nil

	default:
		return marketdata.SymbolRequest{}, errors.Wrapf(errors.ErrInvalidAssetClass, "%q", class)
	}
}
