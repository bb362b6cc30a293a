// Package metrics registers the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts metadata provider calls by endpoint and outcome
	// (ok, not_found, error, rejected).
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_provider_requests_total",
			Help: "Metadata provider requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_provider_request_duration_seconds",
			Help:    "Metadata provider request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	ProviderRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_provider_retries_total",
			Help: "Retried metadata provider calls",
		},
	)

	// ResolveOutcomes counts resolved records by poster status.
	ResolveOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_metadata_resolve_total",
			Help: "Metadata records produced by status",
		},
		[]string{"status"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_metadata_cache_hits_total",
			Help: "Session metadata cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_metadata_cache_misses_total",
			Help: "Session metadata cache misses",
		},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marquee_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Recommendations counts recommend calls by outcome (ok, not_found, error).
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_active_sessions",
			Help: "Sessions holding a metadata cache",
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_catalog_movies",
			Help: "Movies in the loaded catalog",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_catalog_reloads_total",
			Help: "Catalog reload attempts by outcome",
		},
		[]string{"outcome"},
	)
)
