package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sentra-ai/sentra/pkg/server/api"
)

// AnalyzeHandler handles POST /api/v1/analyze
//
// Runs the full fusion analysis over the submitted incident text: keyword
// technique matching, semantic technique matching, evidence retrieval, and
// generated summary.
//
// Request format:
//
//	{"log_text": "powershell -enc ... connecting to 10.0.0.5", "top_k": 6}
//
// Response format:
//
//	{
//	  "summary": "...",
//	  "technique_matches": [{"technique_id": "T1059.001", ...}],
//	  "evidence": [{"id": "...", "text": "...", "distance": 0.12}]
//	}
//
// Retrieval and semantic matching degrade gracefully when backends fail;
// only summary generation failure turns the whole request into a 502.
func AnalyzeHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseAnalyzeRequest(r)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				api.WriteError(w, http.StatusBadRequest, "Bad Request", verr.Error())
				return
			}
			api.WriteError(w, http.StatusBadRequest, "Bad Request", "")
			return
		}

		start := time.Now()
		result, err := deps.Analyzer.Analyze(r.Context(), req.LogText, req.TopK)
		if deps.Metrics != nil {
			deps.Metrics.ObserveAnalyze(time.Since(start), err != nil)
		}
		if err != nil {
			log.Error().
				Str("component", "api").
				Err(err).
				Msg("Analysis failed")
			api.WriteError(w, http.StatusBadGateway, "Bad Gateway", "analysis backend failure")
			return
		}

		log.Info().
			Str("component", "api").
			Int("matches", len(result.Matches)).
			Int("evidence", len(result.Evidence)).
			Dur("duration", time.Since(start)).
			Msg("Analysis complete")

		api.WriteJSON(w, http.StatusOK, result)
	}
}
