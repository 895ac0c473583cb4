package api

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/sentra-ai/sentra/pkg/analysis"
	"github.com/sentra-ai/sentra/pkg/ingest"
	"github.com/sentra-ai/sentra/pkg/metrics"
)

// Deps holds dependencies for API handlers.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Ingester runs the deduplicating ingest pipeline.
	Ingester Ingester

	// Analyzer runs incident analysis.
	Analyzer Analyzer

	// Metrics is the server instrumentation; nil disables counting.
	Metrics *metrics.Metrics

	// MetricsHandler serves /metrics when enabled.
	MetricsHandler http.Handler

	// Ready flag for readiness check.
	Ready *atomic.Bool
}

// Ingester is the subset of the ingest pipeline the API needs.
// Defined here to avoid circular dependencies and ease mocking.
type Ingester interface {
	Run(ctx context.Context, items []any, declaredSource string) (ingest.Report, error)
}

// Analyzer is the subset of the analysis engine the API needs.
type Analyzer interface {
	Analyze(ctx context.Context, incident string, topK int) (*analysis.Result, error)
}
