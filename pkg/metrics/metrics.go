// Package metrics holds the Prometheus instrumentation for the Sentra
// server: ingest volume, skip categories, and analysis latency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sentra-ai/sentra/pkg/ingest"
)

// Metrics holds all the Prometheus metrics for the Sentra service.
type Metrics struct {
	EventsStoredTotal    prometheus.Counter
	EventsMalformedTotal prometheus.Counter
	EventsDuplicateTotal prometheus.Counter
	EmbedFailedTotal     prometheus.Counter
	AnalyzeTotal         prometheus.Counter
	AnalyzeErrorsTotal   prometheus.Counter
	AnalyzeDuration      prometheus.Histogram
}

// New creates a Metrics instance registered on reg. Pass a fresh registry in
// tests to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsStoredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentra_events_stored_total",
			Help: "Total number of evidence records stored",
		}),
		EventsMalformedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentra_events_malformed_total",
			Help: "Total number of unparseable log lines skipped",
		}),
		EventsDuplicateTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentra_events_duplicate_total",
			Help: "Total number of lines collapsed by within-batch dedup",
		}),
		EmbedFailedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentra_embed_failed_total",
			Help: "Total number of records excluded due to embedding failure",
		}),
		AnalyzeTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentra_analyze_requests_total",
			Help: "Total number of analysis requests",
		}),
		AnalyzeErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sentra_analyze_errors_total",
			Help: "Total number of failed analysis requests",
		}),
		AnalyzeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentra_analyze_duration_seconds",
			Help:    "Wall time of analysis requests",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveIngest records the outcome counts of one ingest batch.
func (m *Metrics) ObserveIngest(report ingest.Report) {
	m.EventsStoredTotal.Add(float64(report.Stored))
	m.EventsMalformedTotal.Add(float64(report.Malformed))
	m.EventsDuplicateTotal.Add(float64(report.Duplicates))
	m.EmbedFailedTotal.Add(float64(report.EmbedFailed))
}

// ObserveAnalyze records one analysis request with its wall time.
func (m *Metrics) ObserveAnalyze(d time.Duration, failed bool) {
	m.AnalyzeTotal.Inc()
	if failed {
		m.AnalyzeErrorsTotal.Inc()
	}
	m.AnalyzeDuration.Observe(d.Seconds())
}
