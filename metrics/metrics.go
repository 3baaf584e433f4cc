// Package metrics exposes Prometheus instrumentation for the engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_engine_resolutions_total",
			Help: "Total keyword resolutions by answering source and confidence",
		},
		[]string{"source", "confidence"},
	)

	suggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_engine_suggestions_total",
			Help: "Total optimization suggestions emitted by category",
		},
		[]string{"category"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seo_engine_request_duration_seconds",
			Help:    "Engine API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	registerOnce sync.Once
)

// Init registers all collectors. Must be called once at startup.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(resolutionsTotal, suggestionsTotal, requestDuration)
	})
}

// RecordResolution counts one keyword resolution.
func RecordResolution(source, confidence string) {
	resolutionsTotal.WithLabelValues(source, confidence).Inc()
}

// RecordSuggestion counts one emitted optimization suggestion.
func RecordSuggestion(category string) {
	suggestionsTotal.WithLabelValues(category).Inc()
}

// ObserveRequest records the latency of one engine API request.
func ObserveRequest(endpoint string, seconds float64) {
	requestDuration.WithLabelValues(endpoint).Observe(seconds)
}
