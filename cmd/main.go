package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"chartwatch/internal/adapters/config"
	"chartwatch/internal/adapters/errors/noop"
	"chartwatch/internal/adapters/errors/sentry"
	"chartwatch/internal/adapters/postgres"
	"chartwatch/internal/adapters/providers"
	redisadapter "chartwatch/internal/adapters/redis"
	"chartwatch/internal/api"
	"chartwatch/internal/api/handlers"
	"chartwatch/internal/api/health"
	"chartwatch/internal/metrics"
	postgresrepo "chartwatch/internal/repository/postgres"
	redisrepo "chartwatch/internal/repository/redis"
	"chartwatch/internal/services/analysis"
	subscriptionsvc "chartwatch/internal/services/subscription"
	"chartwatch/internal/symbols"
	"chartwatch/pkg/errors"
	"chartwatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	// Upstream price-data provider, selected by config
	provider, err := providers.New(cfg.Providers)
	if err != nil {
		log.Fatalf("Failed to configure data provider: %v", err)
	}
	log.Infof("Data provider: %s", provider.Name())

	// Subscription store
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	// Fundamentals cache is optional; analysis degrades without it
	var fundCache analysis.FundamentalsCache
	var rawRedis *redis.Client
	redisClient, err := redisadapter.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Redis unavailable, fundamentals caching disabled: %v", err)
	} else {
		defer redisClient.Close()
		rawRedis = redisClient.Client()
		fundCache = redisrepo.NewFundamentalsCache(rawRedis, cfg.Providers.FundamentalsTTL)
	}

	metrics.RegisterCustomCollector(metrics.NewCustomCollector(log, pgClient.DB(), rawRedis))

	normalizer := symbols.New(symbols.Config{
		DefaultMarketSuffix: cfg.Symbols.DefaultMarketSuffix,
		EquityCurrency:      cfg.Symbols.EquityCurrency,
		CryptoQuoteCurrency: cfg.Symbols.CryptoQuoteCurrency,
	})

	analysisService := analysis.NewService(provider, normalizer, fundCache, analysis.Config{
		SMAWindows:  cfg.Indicators.SMAWindows,
		EMAWindow:   cfg.Indicators.EMAWindow,
		RSIPeriod:   cfg.Indicators.RSIPeriod,
		BBPeriod:    cfg.Indicators.BBPeriod,
		MACDHistory: cfg.Indicators.MACDHistory,
	}, log)

	subscriptionRepo := postgresrepo.NewSubscriptionRepository(pgClient.DB())
	subscriptionService := subscriptionsvc.NewService(subscriptionRepo, log)

	healthHandler := newHealthHandler(log, pgClient, redisClient, cfg)

	server := api.NewServer(api.ServerConfig{
		Port:         cfg.Server.Port,
		ServiceName:  cfg.App.Name,
		Version:      cfg.App.Version,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	},
		handlers.NewAnalysisHandler(analysisService, log),
		handlers.NewSubscriptionHandler(subscriptionService, log),
		healthHandler,
		log,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(cfg, server, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func newHealthHandler(log *logger.Logger, pg *postgres.Client, rd *redisadapter.Client, cfg *config.Config) *health.Handler {
	if rd != nil {
		return health.New(log, pg.DB(), rd.Client(), cfg.App.Name, cfg.App.Version)
	}
	return health.New(log, pg.DB(), nil, cfg.App.Name, cfg.App.Version)
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(cfg *config.Config, server *api.Server, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("Server shutdown: %v", err)
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(ctx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
