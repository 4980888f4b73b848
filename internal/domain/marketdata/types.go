package marketdata

import (
	"strings"

	"chartwatch/pkg/errors"
)

// AssetClass identifies the market an instrument trades in.
type AssetClass string

const (
	AssetClassStock  AssetClass = "stock"
	AssetClassCrypto AssetClass = "crypto"
	AssetClassForex  AssetClass = "forex"
)

// ParseAssetClass validates a user-supplied asset class string.
func ParseAssetClass(raw string) (AssetClass, error) {
	switch AssetClass(strings.ToLower(strings.TrimSpace(raw))) {
	case AssetClassStock:
		return AssetClassStock, nil
	case AssetClassCrypto:
		return AssetClassCrypto, nil
	case AssetClassForex:
		return AssetClassForex, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidAssetClass, "%q", raw)
	}
}

// SymbolRequest is the provider-agnostic form of a normalized instrument
// request: the symbol an upstream expects plus the resolved quote currency
// used for display.
type SymbolRequest struct {
	Ticker   string
	Class    AssetClass
	Currency string
}

// Fundamentals are optional equity attributes supplied by an upstream
// provider. The indicator core never fetches these itself.
type Fundamentals struct {
	MarketCap     float64
	PERatio       float64
	EPS           float64
	AnalystTarget float64
	WeekHigh52    float64
	WeekLow52     float64
	Description   string
}
