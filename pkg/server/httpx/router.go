package httpx

import (
	"net/http"

	"github.com/sentra-ai/sentra/pkg/config"
	"github.com/sentra-ai/sentra/pkg/server/api"
	v1 "github.com/sentra-ai/sentra/pkg/server/api/v1"
)

// NewRouter creates and configures the main HTTP router.
//
// The router uses Go 1.22+ enhanced pattern matching for cleaner routes.
// Health endpoints are always enabled for liveness/readiness checks;
// /metrics is mounted only when cfg.MetricsEnabled is set.
func NewRouter(cfg config.ServerConfig, deps *api.Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints (always enabled)
	mux.HandleFunc("GET /healthz", HealthzHandler)
	mux.HandleFunc("GET /readyz", v1.ReadyzHandler(deps.Ready))

	// API endpoints
	mux.HandleFunc("POST /api/v1/ingest", v1.IngestHandler(deps))
	mux.HandleFunc("POST /api/v1/analyze", v1.AnalyzeHandler(deps))

	if cfg.MetricsEnabled && deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}

	return mux
}

// HealthzHandler responds with 200 OK if the server process is alive.
// This endpoint is used by load balancers and orchestrators for liveness
// checks. It does not check dependencies (vector store, model backend),
// just process health. For comprehensive readiness checks, use /readyz.
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
