package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	subdomain "chartwatch/internal/domain/subscription"
	"chartwatch/internal/metrics"
	"chartwatch/internal/services/subscription"
	"chartwatch/pkg/logger"
)

// SubscriptionHandler serves subscription lifecycle endpoints.
type SubscriptionHandler struct {
	service *subscription.Service
	log     *logger.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(service *subscription.Service, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		log:     log,
	}
}

type startSubscriptionRequest struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

type subscriptionResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	StartedAt string `json:"startedAt"`
	ExpiresAt string `json:"expiresAt"`
}

func toResponse(sub *subdomain.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:        sub.ID.String(),
		Email:     sub.Email,
		Plan:      string(sub.Plan),
		Status:    string(sub.Status),
		StartedAt: sub.StartedAt.Format(time.RFC3339),
		ExpiresAt: sub.ExpiresAt.Format(time.RFC3339),
	}
}

// HandleStart handles POST /subscriptions
func (h *SubscriptionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.SubscriptionOperations.WithLabelValues("start", "client_error").Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.service.Start(r.Context(), req.Email, subdomain.Plan(req.Plan))
	if err != nil {
		h.respondError(w, r, "start", err)
		return
	}

	metrics.SubscriptionOperations.WithLabelValues("start", "success").Inc()
	writeJSON(w, http.StatusCreated, toResponse(sub))
}

// HandleGet handles GET /subscriptions/{id}
func (h *SubscriptionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "get")
	if !ok {
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get", err)
		return
	}

	metrics.SubscriptionOperations.WithLabelValues("get", "success").Inc()
	writeJSON(w, http.StatusOK, toResponse(sub))
}

// HandleCancel handles DELETE /subscriptions/{id}
func (h *SubscriptionHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "cancel")
	if !ok {
		return
	}

	sub, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "cancel", err)
		return
	}

	metrics.SubscriptionOperations.WithLabelValues("cancel", "success").Inc()
	writeJSON(w, http.StatusOK, toResponse(sub))
}

// HandleRenew handles POST /subscriptions/{id}/renew
func (h *SubscriptionHandler) HandleRenew(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "renew")
	if !ok {
		return
	}

	sub, err := h.service.Renew(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "renew", err)
		return
	}

	metrics.SubscriptionOperations.WithLabelValues("renew", "success").Inc()
	writeJSON(w, http.StatusOK, toResponse(sub))
}

func (h *SubscriptionHandler) pathID(w http.ResponseWriter, r *http.Request, operation string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		metrics.SubscriptionOperations.WithLabelValues(operation, "client_error").Inc()
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SubscriptionHandler) respondError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, label := statusForError(err)
	metrics.SubscriptionOperations.WithLabelValues(operation, label).Inc()
	if status >= http.StatusInternalServerError {
		h.log.ErrorWithContext(r.Context(), err, map[string]string{
			"handler":   "subscription",
			"operation": operation,
		})
	}
	writeError(w, status, clientMessage(status, err))
}
