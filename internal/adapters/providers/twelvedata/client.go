package twelvedata

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
	defaultBaseURL     = "https://api.twelvedata.com"
	defaultHTTPTimeout = 10 * time.Second
	defaultOutputSize  = 120
	dateLayout         = "2006-01-02"
)

// Config configures the Twelve Data client.
type Config struct {
	APIKey            string
	BaseURL           string
	RequestsPerMinute int

	HTTPClient *http.Client
}

// Client adapts Twelve Data's values-array time series to the
// provider-agnostic contract. Normalized pair symbols (EUR/USD, BTC/USD)
// are passed through as-is; Twelve Data accepts the slash form natively.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a new Twelve Data adapter.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "twelvedata: api key required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 8
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    ratelimit.NewLimiter("twelvedata", cfg.RequestsPerMinute),
	}, nil
}

func (c *Client) Name() string {
	return "twelvedata"
}

// FetchPriceHistory retrieves daily closes. The payload arrives newest
// first; series construction re-establishes chronological order.
func (c *Client) FetchPriceHistory(ctx context.Context, req marketdata.SymbolRequest) (*marketdata.PriceSeries, error) {
	params := url.Values{}
	params.Set("symbol", req.Ticker)
	params.Set("interval", "1day")
	params.Set("outputsize", strconv.Itoa(defaultOutputSize))

	body, err := c.get(ctx, "time_series", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Status  string `json:"status"`
		Code    int    `json:"code"`
		Message string `json:"message"`
		Values  []struct {
			Datetime string `json:"datetime"`
			Close    string `json:"close"`
		} `json:"values"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "twelvedata: decode time series")
	}

	if payload.Status == "error" {
		switch payload.Code {
		case http.StatusNotFound, http.StatusBadRequest:
			return nil, errors.Wrapf(errors.ErrNoData, "twelvedata: %s: %s", req.Ticker, payload.Message)
		case http.StatusTooManyRequests:
			return nil, errors.Wrapf(errors.ErrRateLimited, "twelvedata: %s", req.Ticker)
		default:
			return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "twelvedata: code %d: %s", payload.Code, payload.Message)
		}
	}
	if len(payload.Values) == 0 {
		return nil, errors.Wrapf(errors.ErrNoData, "twelvedata: empty series for %s", req.Ticker)
	}

	samples := make([]marketdata.Sample, 0, len(payload.Values))
	for _, v := range payload.Values {
		date, err := time.Parse(dateLayout, v.Datetime)
		if err != nil {
			continue
		}
		close, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			continue
		}
		samples = append(samples, marketdata.Sample{Date: date, Close: close})
	}

	series, err := marketdata.NewSeries(samples)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNoData, "twelvedata: no usable samples for %s", req.Ticker)
	}
	return series, nil
}

// FetchFundamentals is not available on the Twelve Data plan this adapter
// targets; reports built through it simply omit fundamentals.
func (c *Client) FetchFundamentals(ctx context.Context, req marketdata.SymbolRequest) (*marketdata.Fundamentals, error) {
	return nil, nil
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
		metrics.RecordProviderRequest("twelvedata", endpoint, status, time.Since(start))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		status = "error"
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "twelvedata: build request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		status = "error"
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "twelvedata: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		status = "rate_limited"
		return nil, errors.Wrap(errors.ErrRateLimited, "twelvedata: http 429")
	}
	if resp.StatusCode != http.StatusOK {
		status = "error"
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "twelvedata: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		status = "error"
		return nil, errors.Wrap(errors.ErrUpstreamUnavailable, "twelvedata: read body")
	}
	return body, nil
}
