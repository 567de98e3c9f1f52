package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScanMetrics records outcomes of photo-scan runs per entity.
type ScanMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	merged   *prometheus.CounterVec
}

// NewScanMetrics registers the scan metrics on the provided registerer.
func NewScanMetrics(reg prometheus.Registerer) *ScanMetrics {
	if reg == nil {
		return &ScanMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scan_duration_seconds",
		Help:    "Duration of photo-scan runs in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 90},
	}, []string{"entity"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_runs_total",
		Help: "Photo-scan runs by outcome.",
	}, []string{"entity", "outcome"})
	merged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_fields_merged_total",
		Help: "Fields filled from photo-scan extractions.",
	}, []string{"entity"})
	reg.MustRegister(duration, runs, merged)
	return &ScanMetrics{
		duration: duration,
		runs:     runs,
		merged:   merged,
	}
}

// ObserveDuration records how long a scan for entity took.
func (s *ScanMetrics) ObserveDuration(entity string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(entity)).Observe(duration.Seconds())
}

// IncSuccess counts a scan that produced a merge.
func (s *ScanMetrics) IncSuccess(entity string) {
	s.inc(entity, "success")
}

// IncFailure counts a scan that failed in any step.
func (s *ScanMetrics) IncFailure(entity string) {
	s.inc(entity, "failure")
}

// AddMerged counts fields newly filled by a merge.
func (s *ScanMetrics) AddMerged(entity string, count int) {
	if s == nil || s.merged == nil || count <= 0 {
		return
	}
	s.merged.WithLabelValues(normalizeLabel(entity)).Add(float64(count))
}

func (s *ScanMetrics) inc(entity, outcome string) {
	if s == nil || s.runs == nil {
		return
	}
	s.runs.WithLabelValues(normalizeLabel(entity), outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
