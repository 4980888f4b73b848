package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartwatch/internal/domain/subscription"
	"chartwatch/internal/testsupport"
	"chartwatch/pkg/errors"
)

func uniqueEmail() string {
	return "test-" + uuid.NewString() + "@example.com"
}

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewSubscriptionRepository(testDB.Tx())
	ctx := context.Background()

	sub := subscription.NewTrial(uniqueEmail(), subscription.PlanPro)
	require.NoError(t, repo.Create(ctx, sub))

	retrieved, err := repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.Email, retrieved.Email)
	assert.Equal(t, subscription.PlanPro, retrieved.Plan)
	assert.Equal(t, subscription.StatusTrial, retrieved.Status)
	assert.WithinDuration(t, sub.ExpiresAt, retrieved.ExpiresAt, time.Second)

	byEmail, err := repo.GetByEmail(ctx, sub.Email)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, byEmail.ID)
}

func TestSubscriptionRepository_GetMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewSubscriptionRepository(testDB.Tx())
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = repo.GetByEmail(ctx, uniqueEmail())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSubscriptionRepository_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewSubscriptionRepository(testDB.Tx())
	ctx := context.Background()

	sub := subscription.NewTrial(uniqueEmail(), subscription.PlanFree)
	require.NoError(t, repo.Create(ctx, sub))

	sub.Renew(time.Now().UTC())
	require.NoError(t, repo.Update(ctx, sub))

	retrieved, err := repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, retrieved.Status)

	// Updating a record that does not exist reports not found.
	ghost := subscription.NewTrial(uniqueEmail(), subscription.PlanFree)
	err = repo.Update(ctx, ghost)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSubscriptionRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewSubscriptionRepository(testDB.Tx())
	ctx := context.Background()

	sub := subscription.NewTrial(uniqueEmail(), subscription.PlanFree)
	require.NoError(t, repo.Create(ctx, sub))
	require.NoError(t, repo.Delete(ctx, sub.ID))

	_, err := repo.GetByID(ctx, sub.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = repo.Delete(ctx, sub.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
