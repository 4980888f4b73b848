package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"chartwatch/internal/domain/subscription"
	"chartwatch/internal/metrics"
	"chartwatch/pkg/errors"
)

// Compile-time check that we implement the interface
var _ subscription.Repository = (*SubscriptionRepository)(nil)

// SubscriptionRepository implements subscription.Repository using sqlx
type SubscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription record
func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, email, plan, status, started_at, expires_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Email, sub.Plan, sub.Status,
		sub.StartedAt, sub.ExpiresAt, sub.CreatedAt, sub.UpdatedAt,
	)
	metrics.RecordDBQuery("postgres", "subscription_create", time.Since(start), err)

	return err
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	query := `
		SELECT id, email, plan, status, started_at, expires_at, created_at, updated_at
		FROM subscriptions
		WHERE id = $1`

	return r.getOne(ctx, "subscription_get_by_id", query, id)
}

// GetByEmail retrieves the most recent subscription for an email address.
// Lapsed records for the same email may coexist with a live one.
func (r *SubscriptionRepository) GetByEmail(ctx context.Context, email string) (*subscription.Subscription, error) {
	query := `
		SELECT id, email, plan, status, started_at, expires_at, created_at, updated_at
		FROM subscriptions
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1`

	return r.getOne(ctx, "subscription_get_by_email", query, email)
}

// Update persists mutable subscription fields
func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan = $2, status = $3, expires_at = $4, updated_at = $5
		WHERE id = $1`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Plan, sub.Status, sub.ExpiresAt, sub.UpdatedAt,
	)
	metrics.RecordDBQuery("postgres", "subscription_update", time.Since(start), err)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.Wrap(errors.ErrNotFound, "subscription not found")
	}
	return nil
}

// Delete removes a subscription record
func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE id = $1`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, id)
	metrics.RecordDBQuery("postgres", "subscription_delete", time.Since(start), err)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.Wrap(errors.ErrNotFound, "subscription not found")
	}
	return nil
}

func (r *SubscriptionRepository) getOne(ctx context.Context, operation, query string, arg interface{}) (*subscription.Subscription, error) {
	var sub subscription.Subscription

	start := time.Now()
	err := r.db.GetContext(ctx, &sub, query, arg)
	metrics.RecordDBQuery("postgres", operation, time.Since(start), err)

	if err == sql.ErrNoRows {
		return nil, errors.Wrap(errors.ErrNotFound, "subscription not found")
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}
