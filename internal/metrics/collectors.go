package metrics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"chartwatch/pkg/logger"
)

// CustomCollector collects gauge metrics straight from the backing stores
// at scrape time. Either store may be nil; its metrics are simply absent.
type CustomCollector struct {
	log      *logger.Logger
	postgres *sqlx.DB
	redis    *redis.Client

	// Descriptors
	subscriptions     *prometheus.Desc
	cachedFundamental *prometheus.Desc
	redisKeys         *prometheus.Desc
}

// NewCustomCollector creates a new store-backed metrics collector
func NewCustomCollector(log *logger.Logger, postgres *sqlx.DB, redis *redis.Client) *CustomCollector {
	return &CustomCollector{
		log:      log,
		postgres: postgres,
		redis:    redis,

		subscriptions: prometheus.NewDesc(
			"chartwatch_subscriptions",
			"Number of subscription records by status",
			[]string{"status"}, nil,
		),
		cachedFundamental: prometheus.NewDesc(
			"chartwatch_cached_fundamentals",
			"Number of fundamentals entries currently cached",
			nil, nil,
		),
		redisKeys: prometheus.NewDesc(
			"chartwatch_redis_keys",
			"Total number of keys in the redis database",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.subscriptions
	ch <- c.cachedFundamental
	ch <- c.redisKeys
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.postgres != nil {
		c.collectSubscriptionStats(ctx, ch)
	}
	if c.redis != nil {
		c.collectCacheStats(ctx, ch)
	}
}

func (c *CustomCollector) collectSubscriptionStats(ctx context.Context, ch chan<- prometheus.Metric) {
	type SubscriptionStat struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}

	var stats []SubscriptionStat
	err := c.postgres.SelectContext(ctx, &stats, `
		SELECT status, COUNT(*) as count
		FROM subscriptions
		GROUP BY status
	`)
	if err != nil {
		c.log.Error("Failed to collect subscription stats", "error", err)
		return
	}

	for _, stat := range stats {
		ch <- prometheus.MustNewConstMetric(
			c.subscriptions,
			prometheus.GaugeValue,
			float64(stat.Count),
			stat.Status,
		)
	}
}

func (c *CustomCollector) collectCacheStats(ctx context.Context, ch chan<- prometheus.Metric) {
	var cursor uint64
	var count int
	for {
		keys, next, err := c.redis.Scan(ctx, cursor, "fundamentals:*", 200).Result()
		if err != nil {
			c.log.Error("Failed to scan fundamentals cache", "error", err)
			return
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	ch <- prometheus.MustNewConstMetric(
		c.cachedFundamental,
		prometheus.GaugeValue,
		float64(count),
	)

	total, err := c.redis.DBSize(ctx).Result()
	if err == nil {
		ch <- prometheus.MustNewConstMetric(
			c.redisKeys,
			prometheus.GaugeValue,
			float64(total),
		)
	}
}
