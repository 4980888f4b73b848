package subscription

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"chartwatch/internal/domain/subscription"
	"chartwatch/pkg/errors"
	"chartwatch/pkg/logger"
)

// Service handles subscription lifecycle business logic. Expiry is lazy:
// records are normalized on read rather than by a background sweeper.
type Service struct {
	repo subscription.Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewService creates a new subscription service
func NewService(repo subscription.Repository, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a trial subscription for an email address. An existing
// non-expired record for the same email is a conflict.
func (s *Service) Start(ctx context.Context, email string, plan subscription.Plan) (*subscription.Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "email %q", email)
	}
	if plan == "" {
		plan = subscription.PlanFree
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && !existing.IsExpired(s.now()) && existing.Status != subscription.StatusCancelled {
		return nil, errors.Wrapf(errors.ErrAlreadyExists, "subscription for %s", email)
	}

	sub := subscription.NewTrial(email, plan)
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Infof("started %s trial for %s (expires %s)", plan, email, sub.ExpiresAt.Format(time.RFC3339))
	return sub, nil
}

// Get fetches a subscription, flipping it to expired on read when it is
// past its expiry.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.IsExpired(s.now()) && sub.Status != subscription.StatusExpired {
		sub.Status = subscription.StatusExpired
		sub.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, sub); err != nil {
			s.log.Warnf("failed to persist expiry for %s: %v", sub.ID, err)
		}
	}

	return sub, nil
}

// Cancel marks a subscription cancelled. Cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == subscription.StatusCancelled {
		return sub, nil
	}

	sub.Cancel(s.now())
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Renew extends a subscription by one billing period. Cancelled records
// cannot be renewed.
func (s *Service) Renew(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == subscription.StatusCancelled {
		return nil, errors.Wrapf(errors.ErrSubscriptionCancelled, "subscription %s", sub.ID)
	}

	sub.Renew(s.now())
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
