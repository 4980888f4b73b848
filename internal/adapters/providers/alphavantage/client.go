package alphavantage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chartwatch/internal/adapters/providers/ratelimit"
	"chartwatch/internal/domain/marketdata"
	"chartwatch/internal/metrics"
	"chartwatch/pkg/errors"
)

const (
	defaultBaseURL     = "https://www.alphavantage.co"
	defaultHTTPTimeout = 10 * time.Second
	dateLayout         = "2006-01-02"
)

// Config configures the Alpha Vantage client. The API key is injected
// explicitly; nothing is read from ambient process state.
type Config struct {
	APIKey            string
	BaseURL           string
	RequestsPerMinute int

	HTTPClient *http.Client
}

// Client adapts Alpha Vantage's date-keyed daily time series to the
// provider-agnostic contract.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a new Alpha Vantage adapter.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "alphavantage: api key required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 5
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    ratelimit.NewLimiter("alphavantage", cfg.RequestsPerMinute),
	}, nil
}

func (c *Client) Name() string {
	return "alphavantage"
}

// FetchPriceHistory retrieves the daily close history for a normalized
// symbol. The payload is a date-keyed map; each entry's close lives in a
// numbered sub-field.
func (c *Client) FetchPriceHistory(ctx context.Context, req marketdata.SymbolRequest) (*marketdata.PriceSeries, error) {
	params := url.Values{}
	var seriesKey string

	switch req.Class {
	case marketdata.AssetClassForex:
		base, quote, err := splitPair(req.Ticker)
		if err != nil {
			return nil, err
		}
		params.Set("function", "FX_DAILY")
		params.Set("from_symbol", base)
		params.Set("to_symbol", quote)
		seriesKey = "Time Series FX (Daily)"

	case marketdata.AssetClassCrypto:
		base, quote, err := splitPair(req.Ticker)
		if err != nil {
			return nil, err
		}
		params.Set("function", "DIGITAL_CURRENCY_DAILY")
		params.Set("symbol", base)
		params.Set("market", quote)
		seriesKey = "Time Series (Digital Currency Daily)"

	default:
		params.Set("function", "TIME_SERIES_DAILY")
		params.Set("symbol", req.Ticker)
		seriesKey = "Time Series (Daily)"
	}

	body, err := c.get(ctx, "query", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ErrorMessage string                       `json:"Error Message"`
		Note         string                       `json:"Note"`
		Information  string                       `json:"Information"`
		Daily        map[string]map[string]string `json:"Time Series (Daily)"`
		FXDaily      map[string]map[string]string `json:"Time Series FX (Daily)"`
		CryptoDaily  map[string]map[string]string `json:"Time Series (Digital Currency Daily)"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "alphavantage: decode time series")
	}

	// Throttling shows up as a 200 with a note, not a 429.
	if payload.Note != "" || payload.Information != "" {
		return nil, errors.Wrapf(errors.ErrRateLimited, "alphavantage: %s", req.Ticker)
	}
	if payload.ErrorMessage != "" {
		return nil, errors.Wrapf(errors.ErrNoData, "alphavantage: %s", req.Ticker)
	}

	var raw map[string]map[string]string
	switch seriesKey {
	case "Time Series FX (Daily)":
		raw = payload.FXDaily
	case "Time Series (Digital Currency Daily)":
		raw = payload.CryptoDaily
	default:
		raw = payload.Daily
	}
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrNoData, "alphavantage: empty series for %s", req.Ticker)
	}

	series, err := marketdata.NewSeriesFromDateMap(raw, "4. close", dateLayout)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNoData, "alphavantage: no usable samples for %s", req.Ticker)
	}
	return series, nil
}

// FetchFundamentals retrieves the company OVERVIEW. Equities only.
func (c *Client) FetchFundamentals(ctx context.Context, req marketdata.SymbolRequest) (*marketdata.Fundamentals, error) {
	if req.Class != marketdata.AssetClassStock {
		return nil, nil
	}

	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", req.Ticker)

	body, err := c.get(ctx, "query", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Note                 string `json:"Note"`
		MarketCapitalization string `json:"MarketCapitalization"`
		PERatio              string `json:"PERatio"`
		EPS                  string `json:"EPS"`
		AnalystTargetPrice   string `json:"AnalystTargetPrice"`
		WeekHigh52           string `json:"52WeekHigh"`
		WeekLow52            string `json:"52WeekLow"`
		Description          string `json:"Description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "alphavantage: decode overview")
	}

	if payload.Note != "" {
		return nil, errors.Wrapf(errors.ErrRateLimited, "alphavantage: overview %s", req.Ticker)
	}
	// Unknown symbols come back as an empty object.
	if payload.MarketCapitalization == "" && payload.Description == "" {
		return nil, nil
	}

	return &marketdata.Fundamentals{
		MarketCap:     parseFloat(payload.MarketCapitalization),
		PERatio:       parseFloat(payload.PERatio),
		EPS:           parseFloat(payload.EPS),
		AnalystTarget: parseFloat(payload.AnalystTargetPrice),
		WeekHigh52:    parseFloat(payload.WeekHigh52),
		WeekLow52:     parseFloat(payload.WeekLow52),
		Description:   payload.Description,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("apikey", c.cfg.APIKey)
	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + endpoint + "?" + params.Encode()

	start := time.Now()
	status := "success"
	defer func() {
		metrics.RecordProviderRequest("alphavantage", params.Get("function"), status, time.Since(start))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		status = "error"
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "alphavantage: build request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		status = "error"
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "alphavantage: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		status = "rate_limited"
		return nil, errors.Wrap(errors.ErrRateLimited, "alphavantage: http 429")
	}
	if resp.StatusCode != http.StatusOK {
		status = "error"
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "alphavantage: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		status = "error"
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "alphavantage: read body")
	}
	return body, nil
}

// splitPair splits a normalized "BASE/QUOTE" pair symbol.
func splitPair(symbol string) (string, string, error) {
	parts := strings.SplitN(symbol, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Wrapf(errors.ErrInvalidTicker, "pair %q", symbol)
	}
	return parts[0], parts[1], nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
