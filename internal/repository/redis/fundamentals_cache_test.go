package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/internal/testsupport"
	"chartwatch/pkg/errors"
)

func TestFundamentalsCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := testsupport.NewTestRedis(t)
	cache := NewFundamentalsCache(client, time.Minute)
	ctx := context.Background()

	fund := &marketdata.Fundamentals{
		MarketCap:   1234567890,
		PERatio:     24.5,
		EPS:         10.12,
		WeekHigh52:  180.5,
		WeekLow52:   90.25,
		Description: "Diversified conglomerate",
	}

	t.Run("miss before save", func(t *testing.T) {
		_, err := cache.Get(ctx, "RELIANCE.NS")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})

	t.Run("save then hit", func(t *testing.T) {
		require.NoError(t, cache.Save(ctx, "RELIANCE.NS", fund))

		got, err := cache.Get(ctx, "RELIANCE.NS")
		require.NoError(t, err)
		assert.Equal(t, fund, got)
	})

	t.Run("keys are per symbol", func(t *testing.T) {
		_, err := cache.Get(ctx, "TCS.NS")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestFundamentalsCacheTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := testsupport.NewTestRedis(t)
	cache := NewFundamentalsCache(client, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "EXP.NS", &marketdata.Fundamentals{MarketCap: 1}))

	ttl, err := client.TTL(ctx, "fundamentals:EXP.NS").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Second)
}
