package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contest_gateway_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contest_gateway_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// UpstreamRequests counts calls to the upstream judge API by endpoint and outcome
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contest_gateway_upstream_requests_total",
			Help: "Total number of upstream judge API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// ActiveCountdowns tracks live countdown subscriptions on the shared scheduler
	ActiveCountdowns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contest_gateway_active_countdowns",
			Help: "Number of active countdown subscriptions",
		},
	)

	// CacheHits counts leaderboard snapshot cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contest_gateway_cache_hits_total",
			Help: "Total number of leaderboard cache hits",
		},
	)

	// CacheMisses counts leaderboard snapshot cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contest_gateway_cache_misses_total",
			Help: "Total number of leaderboard cache misses",
		},
	)
)
