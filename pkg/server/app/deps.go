package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sentra-ai/sentra/pkg/analysis"
	"github.com/sentra-ai/sentra/pkg/chroma"
	"github.com/sentra-ai/sentra/pkg/config"
	"github.com/sentra-ai/sentra/pkg/ingest"
	"github.com/sentra-ai/sentra/pkg/metrics"
	"github.com/sentra-ai/sentra/pkg/ollama"
	"github.com/sentra-ai/sentra/pkg/rules"
	"github.com/sentra-ai/sentra/pkg/server/api"
)

// Deps holds dependencies for the server application.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Ingester runs the deduplicating ingest pipeline.
	Ingester api.Ingester

	// Analyzer runs incident fusion analysis.
	Analyzer api.Analyzer

	// Metrics is the server instrumentation; nil disables counting.
	Metrics *metrics.Metrics

	// MetricsHandler serves /metrics when enabled.
	MetricsHandler http.Handler

	// Config manager for runtime configuration
	Config *config.Manager

	// Logger for structured logging (injected by caller)
	Logger zerolog.Logger
}

// Bootstrap builds the production dependency set from configuration.
//
// It connects to the vector store and the model backend, ensures both
// collections exist, and loads the technique rule set. Backend failures
// here are fatal: the server refuses to start against an unreachable
// vector store.
func Bootstrap(ctx context.Context, cfg *config.Config, mgr *config.Manager, logger zerolog.Logger) (*Deps, error) {
	store := chroma.New(cfg.Chroma.Host)
	if err := store.Heartbeat(ctx); err != nil {
		return nil, fmt.Errorf("vector store unreachable at %s: %w", cfg.Chroma.Host, err)
	}

	evidence, err := store.GetOrCreateCollection(ctx, cfg.Chroma.EvidenceCollection)
	if err != nil {
		return nil, fmt.Errorf("create evidence collection: %w", err)
	}
	techniques, err := store.GetOrCreateCollection(ctx, cfg.Chroma.TechniqueCollection)
	if err != nil {
		return nil, fmt.Errorf("create technique collection: %w", err)
	}

	model := ollama.New(ollama.Options{
		Host:          cfg.Ollama.Host,
		EmbedModel:    cfg.Ollama.EmbedModel,
		GenModel:      cfg.Ollama.GenModel,
		EmbedTimeout:  cfg.Ollama.EmbedTimeout,
		GenTimeout:    cfg.Ollama.GenTimeout,
		MaxConcurrent: cfg.Ollama.MaxConcurrent,
	})

	ruleSet, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, fmt.Errorf("load technique rules: %w", err)
	}
	logger.Info().
		Int("rules", len(ruleSet.Rules)).
		Str("evidence_collection", evidence.Name()).
		Str("technique_collection", techniques.Name()).
		Msg("Backends connected")

	analyzer := analysis.NewAnalyzer(
		analysis.NewRetriever(model, evidence),
		analysis.NewSemanticMatcher(model, techniques),
		model,
		ruleSet,
		analysis.DefaultSemanticN,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Deps{
		Ingester:       ingest.New(model, evidence),
		Analyzer:       analyzer,
		Metrics:        metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Config:         mgr,
		Logger:         logger,
	}, nil
}
