// Package analysis answers incident-analysis queries by fusing three
// independent evidence sources: semantically retrieved historical evidence,
// deterministic keyword technique matches, and semantic nearest-neighbor
// technique matches, alongside a generated narrative summary.
package analysis

import (
	"context"

	"github.com/sentra-ai/sentra/pkg/chroma"
)

// Embedder embeds a single text. An empty vector means the embedding failed.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator produces the narrative summary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Index is a nearest-neighbor query against one vector collection.
type Index interface {
	Query(ctx context.Context, embedding []float64, k int) (*chroma.QueryResult, error)
}

// Hit is one retrieved evidence record, ranked by ascending distance.
// Distance is nil when the backing index does not report distances.
type Hit struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
	Distance *float64       `json:"distance"`
}

// hitsFromResult flattens a collection query into ranked hits.
func hitsFromResult(res *chroma.QueryResult) []Hit {
	hits := make([]Hit, 0, res.Len())
	for i := range res.IDs {
		hit := Hit{ID: res.IDs[i]}
		if i < len(res.Documents) {
			hit.Text = res.Documents[i]
		}
		if i < len(res.Metadatas) {
			hit.Metadata = res.Metadatas[i]
		}
		if i < len(res.Distances) {
			d := res.Distances[i]
			hit.Distance = &d
		}
		hits = append(hits, hit)
	}
	return hits
}
