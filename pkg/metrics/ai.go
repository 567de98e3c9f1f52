package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AIMetrics records calls to the completion endpoint.
type AIMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewAIMetrics registers the completion metrics on the provided registerer.
func NewAIMetrics(reg prometheus.Registerer) *AIMetrics {
	if reg == nil {
		return &AIMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai_request_duration_seconds",
		Help:    "Duration of completion requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_requests_total",
		Help: "Completion requests by outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, requests)
	return &AIMetrics{duration: duration, requests: requests}
}

// Observe records one completion request.
func (a *AIMetrics) Observe(operation string, duration time.Duration, err error) {
	if a == nil || a.duration == nil || a.requests == nil {
		return
	}
	op := normalizeLabel(operation)
	a.duration.WithLabelValues(op).Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	a.requests.WithLabelValues(op, outcome).Inc()
}
