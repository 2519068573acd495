// Package monitoring exposes Prometheus metrics for the dashboard core.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	SnapshotLoads      *prometheus.CounterVec
	SnapshotCacheHits  prometheus.Counter
	ReportExtractions  *prometheus.CounterVec
}

// NewMetrics creates and registers the Prometheus metrics on the default
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		SnapshotLoads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kycdash_snapshot_loads_total",
				Help: "Total number of snapshot load attempts.",
			},
			[]string{"result"},
		),
		SnapshotCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kycdash_snapshot_cache_hits_total",
				Help: "Total number of snapshot loads served from cache.",
			},
		),
		ReportExtractions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kycdash_report_extractions_total",
				Help: "Total number of report extraction attempts.",
			},
			[]string{"result"},
		),
	}
}

// NewTestMetrics creates metrics on a private registry, for tests that
// build multiple component instances in one process.
func NewTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		SnapshotLoads: factory.NewCounterVec(
			prometheus.CounterOpts{Name: "kycdash_snapshot_loads_total", Help: "Total number of snapshot load attempts."},
			[]string{"result"},
		),
		SnapshotCacheHits: factory.NewCounter(
			prometheus.CounterOpts{Name: "kycdash_snapshot_cache_hits_total", Help: "Total number of snapshot loads served from cache."},
		),
		ReportExtractions: factory.NewCounterVec(
			prometheus.CounterOpts{Name: "kycdash_report_extractions_total", Help: "Total number of report extraction attempts."},
			[]string{"result"},
		),
	}
}

// RecordLoad records a snapshot load attempt.
func (m *Metrics) RecordLoad(result string) {
	m.SnapshotLoads.WithLabelValues(result).Inc()
}

// RecordCacheHit records a snapshot load served from cache.
func (m *Metrics) RecordCacheHit() {
	m.SnapshotCacheHits.Inc()
}

// RecordExtraction records a report extraction attempt.
func (m *Metrics) RecordExtraction(result string) {
	m.ReportExtractions.WithLabelValues(result).Inc()
}
