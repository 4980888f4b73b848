package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"chartwatch/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Providers     ProviderConfig
	Symbols       SymbolConfig
	Indicators    IndicatorConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"chartwatch"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// ProviderConfig carries explicit upstream credentials. Keys are injected at
// adapter construction, never read from ambient process state by the core.
type ProviderConfig struct {
	Active string `envconfig:"DATA_PROVIDER" default:"alphavantage"`

	AlphaVantageAPIKey  string `envconfig:"ALPHAVANTAGE_API_KEY"`
	AlphaVantageBaseURL string `envconfig:"ALPHAVANTAGE_BASE_URL" default:"https://www.alphavantage.co"`
	AlphaVantageRPM     int    `envconfig:"ALPHAVANTAGE_REQUESTS_PER_MINUTE" default:"5"`

	TwelveDataAPIKey  string `envconfig:"TWELVEDATA_API_KEY"`
	TwelveDataBaseURL string `envconfig:"TWELVEDATA_BASE_URL" default:"https://api.twelvedata.com"`
	TwelveDataRPM     int    `envconfig:"TWELVEDATA_REQUESTS_PER_MINUTE" default:"8"`

	HTTPTimeout     time.Duration `envconfig:"PROVIDER_HTTP_TIMEOUT" default:"10s"`
	FundamentalsTTL time.Duration `envconfig:"FUNDAMENTALS_CACHE_TTL" default:"6h"`
}

// SymbolConfig controls ticker normalization per asset class.
type SymbolConfig struct {
	DefaultMarketSuffix string `envconfig:"SYMBOL_DEFAULT_MARKET_SUFFIX" default:".NS"`
	EquityCurrency      string `envconfig:"SYMBOL_EQUITY_CURRENCY" default:"INR"`
	CryptoQuoteCurrency string `envconfig:"SYMBOL_CRYPTO_QUOTE" default:"USD"`
}

type IndicatorConfig struct {
	SMAWindows  []int `envconfig:"INDICATOR_SMA_WINDOWS" default:"20,50"`
	EMAWindow   int   `envconfig:"INDICATOR_EMA_WINDOW" default:"20"`
	RSIPeriod   int   `envconfig:"INDICATOR_RSI_PERIOD" default:"14"`
	BBPeriod    int   `envconfig:"INDICATOR_BB_PERIOD" default:"20"`
	MACDHistory int   `envconfig:"INDICATOR_MACD_HISTORY" default:"30"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"chartwatch"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"chartwatch"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
