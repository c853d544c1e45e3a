// Package metrics holds the Prometheus collectors of the analysis pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "futures_analysis_duration_seconds",
			Help:    "Duration of one symbol analysis",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"}, // success|error
	)

	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_fetch_total",
			Help: "Bar fetches by data source, period and outcome",
		},
		[]string{"source", "period", "status"}, // status: success|error|empty|archive
	)

	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_cache_requests_total",
			Help: "Bar cache lookups",
		},
		[]string{"result"}, // hit|miss|error
	)

	PatternsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futures_patterns_detected_total",
			Help: "Recent candlestick patterns reported, by signal",
		},
		[]string{"signal"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(AnalysisDuration, FetchTotal, CacheRequests, PatternsDetected)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAnalysis records one analysis run.
func ObserveAnalysis(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AnalysisDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

// RecordFetch counts one fetch attempt.
func RecordFetch(source, period, status string) {
	FetchTotal.WithLabelValues(source, period, status).Inc()
}

// RecordCache counts one cache lookup.
func RecordCache(result string) {
	CacheRequests.WithLabelValues(result).Inc()
}

// RecordPattern counts one reported pattern.
func RecordPattern(signal string) {
	PatternsDetected.WithLabelValues(signal).Inc()
}
