package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subdomain "chartwatch/internal/domain/subscription"
	subservice "chartwatch/internal/services/subscription"
	"chartwatch/pkg/errors"
	"chartwatch/pkg/logger"
)

type memoryRepo struct {
	byID    map[uuid.UUID]*subdomain.Subscription
	byEmail map[string]*subdomain.Subscription
}

var _ subdomain.Repository = (*memoryRepo)(nil)

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byID:    make(map[uuid.UUID]*subdomain.Subscription),
		byEmail: make(map[string]*subdomain.Subscription),
	}
}

func (r *memoryRepo) Create(_ context.Context, sub *subdomain.Subscription) error {
	cp := *sub
	r.byID[sub.ID] = &cp
	r.byEmail[sub.Email] = &cp
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*subdomain.Subscription, error) {
	sub, ok := r.byID[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*subdomain.Subscription, error) {
	sub, ok := r.byEmail[email]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *memoryRepo) Update(_ context.Context, sub *subdomain.Subscription) error {
	if _, ok := r.byID[sub.ID]; !ok {
		return errors.ErrNotFound
	}
	cp := *sub
	r.byID[sub.ID] = &cp
	r.byEmail[sub.Email] = &cp
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	sub, ok := r.byID[id]
	if !ok {
		return errors.ErrNotFound
	}
	delete(r.byEmail, sub.Email)
	delete(r.byID, id)
	return nil
}

func newSubscriptionMux() (*http.ServeMux, *memoryRepo) {
	repo := newMemoryRepo()
	h := NewSubscriptionHandler(subservice.NewService(repo, logger.Get()), logger.Get())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /subscriptions", h.HandleStart)
	mux.HandleFunc("GET /subscriptions/{id}", h.HandleGet)
	mux.HandleFunc("DELETE /subscriptions/{id}", h.HandleCancel)
	mux.HandleFunc("POST /subscriptions/{id}/renew", h.HandleRenew)
	return mux, repo
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func startOne(t *testing.T, mux *http.ServeMux) subscriptionResponse {
	t.Helper()

	rec := do(mux, http.MethodPost, "/subscriptions", `{"email":"user@example.com","plan":"pro"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp subscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleStart(t *testing.T) {
	t.Run("creates a trial", func(t *testing.T) {
		mux, repo := newSubscriptionMux()

		resp := startOne(t, mux)
		assert.Equal(t, "user@example.com", resp.Email)
		assert.Equal(t, "pro", resp.Plan)
		assert.Equal(t, "trial", resp.Status)
		assert.NotEmpty(t, resp.ExpiresAt)

		id, err := uuid.Parse(resp.ID)
		require.NoError(t, err)
		assert.Contains(t, repo.byID, id)
	})

	t.Run("malformed body", func(t *testing.T) {
		mux, _ := newSubscriptionMux()
		rec := do(mux, http.MethodPost, "/subscriptions", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		mux, _ := newSubscriptionMux()
		rec := do(mux, http.MethodPost, "/subscriptions", `{"email":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		mux, _ := newSubscriptionMux()
		startOne(t, mux)

		rec := do(mux, http.MethodPost, "/subscriptions", `{"email":"user@example.com"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleGet(t *testing.T) {
	mux, _ := newSubscriptionMux()
	created := startOne(t, mux)

	rec := do(mux, http.MethodGet, "/subscriptions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp subscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)

	t.Run("unknown id", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/subscriptions/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/subscriptions/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleCancelAndRenew(t *testing.T) {
	mux, _ := newSubscriptionMux()
	created := startOne(t, mux)

	rec := do(mux, http.MethodPost, "/subscriptions/"+created.ID+"/renew", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp subscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp.Status)

	rec = do(mux, http.MethodDelete, "/subscriptions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp.Status)

	// Renewal after cancellation is a conflict.
	rec = do(mux, http.MethodPost, "/subscriptions/"+created.ID+"/renew", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
