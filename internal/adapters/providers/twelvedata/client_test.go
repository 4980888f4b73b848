package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		RequestsPerMinute: 600,
		HTTPClient:        server.Client(),
	})
	require.NoError(t, err)
	return client
}

func forexReq() marketdata.SymbolRequest {
	return marketdata.SymbolRequest{
		Ticker:   "EUR/USD",
		Class:    marketdata.AssetClassForex,
		Currency: "USD",
	}
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestFetchPriceHistory(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"symbol":   r.URL.Query().Get("symbol"),
			"interval": r.URL.Query().Get("interval"),
			"apikey":   r.URL.Query().Get("apikey"),
		}
		// Twelve Data returns values newest first.
		w.Write([]byte(`{
			"status": "ok",
			"values": [
				{"datetime": "2024-03-04", "close": "1.0900"},
				{"datetime": "2024-03-03", "close": "1.0875"},
				{"datetime": "2024-03-01", "close": "1.0850"}
			]
		}`))
	})

	series, err := client.FetchPriceHistory(context.Background(), forexReq())
	require.NoError(t, err)

	assert.Equal(t, "EUR/USD", gotQuery["symbol"])
	assert.Equal(t, "1day", gotQuery["interval"])
	assert.Equal(t, "test-key", gotQuery["apikey"])

	// Chronological order is re-established regardless of payload order.
	assert.Equal(t, []float64{1.0850, 1.0875, 1.0900}, series.Closes())
}

func TestFetchPriceHistorySkipsBadRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"status": "ok",
			"values": [
				{"datetime": "2024-03-02", "close": "20"},
				{"datetime": "bad", "close": "30"},
				{"datetime": "2024-03-03", "close": "zzz"},
				{"datetime": "2024-03-01", "close": "10"}
			]
		}`))
	})

	series, err := client.FetchPriceHistory(context.Background(), forexReq())
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, series.Closes())
}

func TestFetchPriceHistoryErrors(t *testing.T) {
	cases := []struct {
		name     string
		respond  http.HandlerFunc
		sentinel error
	}{
		{
			name: "symbol not found maps to no data",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status": "error", "code": 404, "message": "symbol not found"}`))
			},
			sentinel: errors.ErrNoData,
		},
		{
			name: "bad request maps to no data",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status": "error", "code": 400, "message": "invalid symbol"}`))
			},
			sentinel: errors.ErrNoData,
		},
		{
			name: "credit limit maps to rate limited",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status": "error", "code": 429, "message": "out of API credits"}`))
			},
			sentinel: errors.ErrRateLimited,
		},
		{
			name: "other error code maps to upstream unavailable",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status": "error", "code": 500, "message": "server error"}`))
			},
			sentinel: errors.ErrUpstreamUnavailable,
		},
		{
			name: "empty values maps to no data",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status": "ok", "values": []}`))
			},
			sentinel: errors.ErrNoData,
		},
		{
			name: "http 429 maps to rate limited",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			sentinel: errors.ErrRateLimited,
		},
		{
			name: "http 503 maps to upstream unavailable",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			sentinel: errors.ErrUpstreamUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.respond)

			_, err := client.FetchPriceHistory(context.Background(), forexReq())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.sentinel), "got %v", err)
		})
	}
}

func TestFetchFundamentals(t *testing.T) {
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("should not be called")
	})

	fund, err := client.FetchFundamentals(context.Background(), forexReq())
	require.NoError(t, err)
	assert.Nil(t, fund)
}
