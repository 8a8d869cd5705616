// Package middleware provides cross-cutting concerns for the review
// ranking engine.
package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abeaupre/go-classement/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of submission volumes,
// rejection outcomes, and ranking query latency.
type PrometheusMetrics struct {
	submissionsTotal *prometheus.CounterVec
	rankingsTotal    *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the given registry. Pass nil to
// register in the default registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}
	return &PrometheusMetrics{
		submissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classement_submissions_total",
				Help: "Review submissions by program and outcome.",
			},
			[]string{"program", "outcome"},
		),
		rankingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classement_rankings_total",
				Help: "Ranking queries by profile.",
			},
			[]string{"profile"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "classement_operation_duration_seconds",
				Help:    "Latency of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSubmission counts one submission attempt with its outcome.
func (pm *PrometheusMetrics) RecordSubmission(program, outcome string) {
	pm.submissionsTotal.WithLabelValues(program, outcome).Inc()
}

// RecordRanking counts one ranking query for a profile.
func (pm *PrometheusMetrics) RecordRanking(profile string) {
	pm.rankingsTotal.WithLabelValues(profile).Inc()
}

// RecordLatency records the duration in seconds of an operation.
func (pm *PrometheusMetrics) RecordLatency(operation string, seconds float64) {
	pm.latency.WithLabelValues(operation).Observe(seconds)
}
