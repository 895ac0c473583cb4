package v1

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sentra-ai/sentra/pkg/server/api"
)

// IngestHandler handles POST /api/v1/ingest
//
// Accepts a batch of raw log records, normalizes them, deduplicates within
// the batch, embeds the surviving records, and stores them in the evidence
// collection.
//
// Request format:
//
//	{"source": "zeek", "items": [{"ts": "...", "id.orig_h": "..."}, "..."]}
//
// Response format:
//
//	{"ingested": 4, "malformed": 1, "duplicates": 2, "embed_failed": 0}
//
// Returns 400 on invalid bodies and 502 when the embedding or storage
// backends fail for the whole batch.
func IngestHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseIngestRequest(r)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				api.WriteError(w, http.StatusBadRequest, "Bad Request", verr.Error())
				return
			}
			api.WriteError(w, http.StatusBadRequest, "Bad Request", "")
			return
		}

		report, err := deps.Ingester.Run(r.Context(), req.Items, req.Source)
		if err != nil {
			log.Error().
				Str("component", "api").
				Int("items", len(req.Items)).
				Err(err).
				Msg("Ingest batch failed")
			api.WriteError(w, http.StatusBadGateway, "Bad Gateway", "ingest backend failure")
			return
		}

		if deps.Metrics != nil {
			deps.Metrics.ObserveIngest(report)
		}

		log.Info().
			Str("component", "api").
			Int("ingested", report.Stored).
			Int("malformed", report.Malformed).
			Int("duplicates", report.Duplicates).
			Int("embed_failed", report.EmbedFailed).
			Msg("Ingest batch complete")

		api.WriteJSON(w, http.StatusOK, report)
	}
}
