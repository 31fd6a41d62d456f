package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapi_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialapi_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesTotal counts vote ledger changes by direction and outcome.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapi_votes_total",
		Help: "Total number of vote requests by direction and outcome",
	}, []string{"direction", "outcome"})

	// PostsTotal counts post mutations by operation.
	PostsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapi_posts_total",
		Help: "Total number of post mutations by operation",
	}, []string{"operation"})

	// AuthAttemptsTotal counts login attempts by outcome.
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapi_auth_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})
)

// ObserveQuery records one statement's latency.
func ObserveQuery(operation, table string, elapsed time.Duration) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}
