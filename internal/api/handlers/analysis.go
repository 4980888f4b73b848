package handlers

import (
	"net/http"
	"time"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/internal/metrics"
	"chartwatch/internal/services/analysis"
	"chartwatch/pkg/logger"
)

// AnalysisHandler serves the technical-analysis report endpoint.
type AnalysisHandler struct {
	service *analysis.Service
	log     *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *analysis.Service, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		log:     log,
	}
}

// HandleAnalysis handles GET /analysis?ticker=&assetClass=
func (h *AnalysisHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	classRaw := r.URL.Query().Get("assetClass")
	if ticker == "" || classRaw == "" {
		metrics.AnalysisRequests.WithLabelValues("unknown", "client_error").Inc()
		writeError(w, http.StatusBadRequest, "ticker and assetClass are required")
		return
	}

	class, err := marketdata.ParseAssetClass(classRaw)
	if err != nil {
		metrics.AnalysisRequests.WithLabelValues("unknown", "client_error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	report, err := h.service.Analyze(r.Context(), ticker, class)
	metrics.AnalysisDuration.WithLabelValues(string(class)).Observe(time.Since(start).Seconds())

	if err != nil {
		status, label := statusForError(err)
		metrics.AnalysisRequests.WithLabelValues(string(class), label).Inc()
		if status >= http.StatusInternalServerError {
			h.log.ErrorWithContext(r.Context(), err, map[string]string{
				"handler": "analysis",
				"ticker":  ticker,
			})
		}
		writeError(w, status, clientMessage(status, err))
		return
	}

	metrics.AnalysisRequests.WithLabelValues(string(class), "success").Inc()
	writeJSON(w, http.StatusOK, report)
}
