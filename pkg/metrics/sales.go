package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics records sale-posting outcomes.
type SalesMetrics struct {
	duration    *prometheus.HistogramVec
	linesPosted prometheus.Counter
	failure     *prometheus.CounterVec
}

// NewSalesMetrics registers the sale-posting metrics on the provided registerer.
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_posting_duration_seconds",
		Help:    "Duration of sale posting units of work in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	linesPosted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sale_lines_posted_total",
		Help: "Order lines durably posted.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_posting_failures_total",
		Help: "Failed sale postings by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, linesPosted, failure)
	return &SalesMetrics{
		duration:    duration,
		linesPosted: linesPosted,
		failure:     failure,
	}
}

// ObserveDuration records how long a posting took for the given outcome.
func (s *SalesMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// AddLinesPosted counts lines that were durably committed.
func (s *SalesMetrics) AddLinesPosted(n int) {
	if s == nil || s.linesPosted == nil || n <= 0 {
		return
	}
	s.linesPosted.Add(float64(n))
}

// IncFailure increments the failure counter for the given error code.
func (s *SalesMetrics) IncFailure(code string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
