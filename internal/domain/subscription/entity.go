package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a subscription record.
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Plan identifies the subscribed tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

const (
	// TrialDuration is how long a new trial subscription lasts.
	TrialDuration = 14 * 24 * time.Hour

	// RenewalDuration is one billing period.
	RenewalDuration = 30 * 24 * time.Hour
)

// Subscription represents one user's subscription record.
type Subscription struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	Plan      Plan      `db:"plan"`
	Status    Status    `db:"status"`
	StartedAt time.Time `db:"started_at"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewTrial creates a fresh trial subscription for an email address.
func NewTrial(email string, plan Plan) *Subscription {
	now := time.Now().UTC()
	return &Subscription{
		ID:        uuid.New(),
		Email:     email,
		Plan:      plan,
		Status:    StatusTrial,
		StartedAt: now,
		ExpiresAt: now.Add(TrialDuration),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpired reports whether the record is past its expiry at the given time.
// Cancelled records never flip to expired; cancellation is terminal.
func (s *Subscription) IsExpired(now time.Time) bool {
	return s.Status != StatusCancelled && now.After(s.ExpiresAt)
}

// Renew extends an active or trial subscription by one billing period and
// promotes trials to active.
func (s *Subscription) Renew(now time.Time) {
	base := s.ExpiresAt
	if now.After(base) {
		base = now
	}
	s.Status = StatusActive
	s.ExpiresAt = base.Add(RenewalDuration)
	s.UpdatedAt = now
}

// Cancel marks the subscription cancelled.
func (s *Subscription) Cancel(now time.Time) {
	s.Status = StatusCancelled
	s.UpdatedAt = now
}
