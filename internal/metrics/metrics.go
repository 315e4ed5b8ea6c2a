// Package metrics holds the Prometheus collectors shared across the service.
// Label sets are kept small: provider and outcome names are fixed strings,
// HTTP paths are chi route patterns rather than raw URLs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	TranscriptAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_provider_attempts_total",
			Help: "Transcript fetch attempts by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by result.",
		},
		[]string{"result"},
	)

	// LLM calls take seconds, not milliseconds.
	LLMDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duration of LLM completion calls in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"provider", "outcome"},
	)

	JobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_jobs_total",
			Help: "Background jobs processed by type and outcome.",
		},
		[]string{"type", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		HTTPInflight,
		TranscriptAttempts,
		CacheRequests,
		LLMDuration,
		JobsProcessed,
	)
}
