package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/internal/services/analysis"
	"chartwatch/internal/symbols"
	"chartwatch/pkg/errors"
	"chartwatch/pkg/logger"
)

type stubProvider struct {
	series *marketdata.PriceSeries
	err    error
}

var _ marketdata.Provider = (*stubProvider)(nil)

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) FetchPriceHistory(_ context.Context, _ marketdata.SymbolRequest) (*marketdata.PriceSeries, error) {
	return s.series, s.err
}

func (s *stubProvider) FetchFundamentals(_ context.Context, _ marketdata.SymbolRequest) (*marketdata.Fundamentals, error) {
	return nil, nil
}

func testSeries(t *testing.T, n int) *marketdata.PriceSeries {
	t.Helper()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]marketdata.Sample, n)
	for i := range samples {
		samples[i] = marketdata.Sample{Date: start.AddDate(0, 0, i), Close: 100 + float64(i)}
	}

	series, err := marketdata.NewSeries(samples)
	require.NoError(t, err)
	return series
}

func newAnalysisHandler(p marketdata.Provider) *AnalysisHandler {
	svc := analysis.NewService(p, symbols.New(symbols.Config{}), nil, analysis.Config{}, logger.Get())
	return NewAnalysisHandler(svc, logger.Get())
}

func doAnalysis(h *AnalysisHandler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.HandleAnalysis(rec, req)
	return rec
}

func TestHandleAnalysis(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newAnalysisHandler(&stubProvider{series: testSeries(t, 60)})

		rec := doAnalysis(h, "/analysis?ticker=RELIANCE&assetClass=stock")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "RELIANCE.NS", body["ticker"])
		assert.Equal(t, "159.00", body["lastClose"])
		assert.Contains(t, body, "technicalAnalysis")
	})

	t.Run("missing params", func(t *testing.T) {
		h := newAnalysisHandler(&stubProvider{})

		assert.Equal(t, http.StatusBadRequest, doAnalysis(h, "/analysis").Code)
		assert.Equal(t, http.StatusBadRequest, doAnalysis(h, "/analysis?ticker=RELIANCE").Code)
		assert.Equal(t, http.StatusBadRequest, doAnalysis(h, "/analysis?assetClass=stock").Code)
	})

	t.Run("bad asset class", func(t *testing.T) {
		h := newAnalysisHandler(&stubProvider{})

		rec := doAnalysis(h, "/analysis?ticker=RELIANCE&assetClass=bond")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad forex ticker", func(t *testing.T) {
		h := newAnalysisHandler(&stubProvider{})

		rec := doAnalysis(h, "/analysis?ticker=EURUS&assetClass=forex")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no data", func(t *testing.T) {
		h := newAnalysisHandler(&stubProvider{err: errors.Wrap(errors.ErrNoData, "nothing")})

		rec := doAnalysis(h, "/analysis?ticker=UNKNOWN&assetClass=stock")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		h := newAnalysisHandler(&stubProvider{err: errors.ErrRateLimited})

		rec := doAnalysis(h, "/analysis?ticker=RELIANCE&assetClass=stock")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("upstream fault hides detail", func(t *testing.T) {
		h := newAnalysisHandler(&stubProvider{err: errors.Wrap(errors.ErrUpstreamUnavailable, "secret upstream detail")})

		rec := doAnalysis(h, "/analysis?ticker=RELIANCE&assetClass=stock")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "internal error", body["error"])
		assert.NotContains(t, rec.Body.String(), "secret upstream detail")
	})
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errors.ErrInvalidTicker, http.StatusBadRequest},
		{errors.ErrInvalidAssetClass, http.StatusBadRequest},
		{errors.ErrInvalidInput, http.StatusBadRequest},
		{errors.ErrNotFound, http.StatusNotFound},
		{errors.ErrNoData, http.StatusNotFound},
		{errors.ErrAlreadyExists, http.StatusConflict},
		{errors.ErrSubscriptionCancelled, http.StatusConflict},
		{errors.ErrRateLimited, http.StatusTooManyRequests},
		{errors.ErrUpstreamUnavailable, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		status, _ := statusForError(tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
	}
}
