package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	gradeRecomputesTotal  *prometheus.CounterVec
	gradeRecomputeSeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API and the grade recompute trigger.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		gradeRecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grade_recompute_total",
			Help: "Enrollment grade recomputations by trigger and outcome.",
		}, []string{"trigger", "outcome"})

		gradeRecomputeSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grade_recompute_batch_seconds",
			Help:    "Duration of one cascading recompute batch.",
			Buckets: prometheus.DefBuckets,
		}, []string{"trigger"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, gradeRecomputesTotal, gradeRecomputeSeconds)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// GradeRecomputes counts single-enrollment recomputations. Outcome is one of
// "changed", "unchanged", "skipped" or "failed".
func GradeRecomputes() *prometheus.CounterVec {
	RegisterMetrics()
	return gradeRecomputesTotal
}

// GradeRecomputeDuration observes whole recompute batches.
func GradeRecomputeDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return gradeRecomputeSeconds
}
