package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for subscription persistence
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	GetByEmail(ctx context.Context, email string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
}
