// Package metrics exposes Prometheus collectors for analysis outcomes and collaborator health.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts completed analyses by modality and verdict.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forensics_analyses_total",
			Help: "Total number of completed analyses",
		},
		[]string{"modality", "verdict"},
	)

	// AnalysisDuration tracks end-to-end analysis latency by modality.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forensics_analysis_duration_seconds",
			Help:    "Duration of analyses in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"modality"},
	)

	// LinkFetchFailuresTotal counts link fetches that ended in a transport error or timeout.
	LinkFetchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forensics_link_fetch_failures_total",
			Help: "Total number of failed link fetches",
		},
	)

	// InferenceFallbacksTotal counts collaborator calls answered by the neutral fallback.
	InferenceFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forensics_inference_fallbacks_total",
			Help: "Total number of inference calls served by the neutral fallback",
		},
		[]string{"capability"},
	)

	// InferenceBreakerState reports the sidecar circuit breaker state (0 closed, 1 half-open, 2 open).
	InferenceBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forensics_inference_breaker_state",
			Help: "Inference sidecar circuit breaker state",
		},
	)
)

// RecordAnalysis records one completed analysis.
func RecordAnalysis(modality, verdict string, duration time.Duration) {
	AnalysesTotal.WithLabelValues(modality, verdict).Inc()
	AnalysisDuration.WithLabelValues(modality).Observe(duration.Seconds())
}

// RecordFetchFailure records a failed link fetch.
func RecordFetchFailure() {
	LinkFetchFailuresTotal.Inc()
}

// RecordFallback records a collaborator call answered by the fallback.
func RecordFallback(capability string) {
	InferenceFallbacksTotal.WithLabelValues(capability).Inc()
}

// SetBreakerState publishes the breaker state as a numeric gauge.
func SetBreakerState(state int) {
	InferenceBreakerState.Set(float64(state))
}
