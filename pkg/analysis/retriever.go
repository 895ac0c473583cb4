package analysis

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Retriever wraps nearest-neighbor retrieval over stored evidence.
type Retriever struct {
	embedder Embedder
	evidence Index
}

// NewRetriever creates a Retriever over the evidence collection.
func NewRetriever(embedder Embedder, evidence Index) *Retriever {
	return &Retriever{embedder: embedder, evidence: evidence}
}

// Retrieve returns up to k evidence hits for the query, most similar first.
// Retrieval degrades instead of failing: an embedding or index problem
// yields an empty result so analysis can proceed without historical context.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []Hit {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil || len(vec) == 0 {
		log.Warn().
			Str("component", "retriever").
			Err(err).
			Msg("Query embedding unavailable, returning no evidence")
		return nil
	}

	res, err := r.evidence.Query(ctx, vec, k)
	if err != nil {
		log.Warn().
			Str("component", "retriever").
			Err(err).
			Msg("Evidence query failed, returning no evidence")
		return nil
	}

	return hitsFromResult(res)
}
