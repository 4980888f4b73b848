package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chartwatch/internal/domain/marketdata"
	"chartwatch/internal/metrics"
	"chartwatch/pkg/errors"
)

// FundamentalsCache caches fundamental attributes in Redis with a TTL.
type FundamentalsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFundamentalsCache creates a new fundamentals cache
func NewFundamentalsCache(client *redis.Client, ttl time.Duration) *FundamentalsCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &FundamentalsCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves cached fundamentals by provider symbol
func (c *FundamentalsCache) Get(ctx context.Context, symbol string) (*marketdata.Fundamentals, error) {
	start := time.Now()
	key := c.getKey(symbol)

	data, err := c.client.Get(ctx, key).Result()
	metrics.RecordDBQuery("redis", "get", time.Since(start), nil)
	if err == redis.Nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "fundamentals not cached for %s", symbol)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get fundamentals from redis: %s", symbol)
	}

	var fund marketdata.Fundamentals
	if err := json.Unmarshal([]byte(data), &fund); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal fundamentals: %s", symbol)
	}

	return &fund, nil
}

// Save stores fundamentals with the configured TTL
func (c *FundamentalsCache) Save(ctx context.Context, symbol string, fund *marketdata.Fundamentals) error {
	key := c.getKey(symbol)

	data, err := json.Marshal(fund)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal fundamentals: %s", symbol)
	}

	start := time.Now()
	err = c.client.Set(ctx, key, data, c.ttl).Err()
	metrics.RecordDBQuery("redis", "set", time.Since(start), err)
	if err != nil {
		return errors.Wrapf(err, "failed to save fundamentals to redis: %s", symbol)
	}

	return nil
}

func (c *FundamentalsCache) getKey(symbol string) string {
	return fmt.Sprintf("fundamentals:%s", symbol)
}
