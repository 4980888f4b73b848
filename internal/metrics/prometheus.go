package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analysis metrics
	AnalysisRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartwatch_analysis_requests_total",
			Help: "Total number of analysis requests",
		},
		[]string{"asset_class", "status"}, // status: success|client_error|no_data|rate_limited|error
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartwatch_analysis_duration_seconds",
			Help:    "Analysis request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"asset_class"},
	)

	// Provider metrics
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartwatch_provider_requests_total",
			Help: "Total number of upstream provider requests",
		},
		[]string{"provider", "endpoint", "status"}, // status: success|error|rate_limited|no_data
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartwatch_provider_latency_seconds",
			Help:    "Upstream provider latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "endpoint"},
	)

	// Subscription metrics
	SubscriptionOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartwatch_subscription_operations_total",
			Help: "Total number of subscription lifecycle operations",
		},
		[]string{"operation", "status"}, // operation: start|get|cancel|renew
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartwatch_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartwatch_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"database", "operation"},
	)
)

// Init registers all metrics with the default Prometheus registry
func Init() {
	prometheus.MustRegister(AnalysisRequests)
	prometheus.MustRegister(AnalysisDuration)

	prometheus.MustRegister(ProviderRequests)
	prometheus.MustRegister(ProviderLatency)

	prometheus.MustRegister(SubscriptionOperations)

	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)
}

// RegisterCustomCollector registers a scrape-time collector with the default registry
func RegisterCustomCollector(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordProviderRequest records an upstream provider call
func RecordProviderRequest(provider, endpoint, status string, latency time.Duration) {
	ProviderRequests.WithLabelValues(provider, endpoint, status).Inc()
	ProviderLatency.WithLabelValues(provider, endpoint).Observe(latency.Seconds())
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}
