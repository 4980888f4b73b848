package handlers

import (
	"encoding/json"
	"net/http"

	"chartwatch/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the domain error taxonomy onto HTTP status codes.
// Rate limiting gets its own code so callers can back off and retry.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrInvalidTicker),
		errors.Is(err, errors.ErrInvalidAssetClass),
		errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, "client_error"
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, errors.ErrAlreadyExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, errors.ErrSubscriptionCancelled):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "error"
	}
}

// clientMessage keeps upstream detail out of responses for server faults.
func clientMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
