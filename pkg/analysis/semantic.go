package analysis

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/sentra-ai/sentra/pkg/rules"
)

// DefaultSemanticN is how many technique neighbors a semantic match returns
// when the caller does not say otherwise.
const DefaultSemanticN = 3

// SemanticMatcher finds technique rules whose embedded descriptions are
// nearest to the incident text.
type SemanticMatcher struct {
	embedder   Embedder
	techniques Index
}

// NewSemanticMatcher creates a matcher over the technique-rule collection.
func NewSemanticMatcher(embedder Embedder, techniques Index) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder, techniques: techniques}
}

// Match returns up to n technique matches with distances, nearest first.
// Evidence carries the full matched rule document. Any embedding or query
// failure degrades to an empty result; semantic matching is supplementary
// discovery, never a reason to fail analysis.
func (m *SemanticMatcher) Match(ctx context.Context, text string, n int) []rules.Match {
	if n <= 0 {
		n = DefaultSemanticN
	}

	vec, err := m.embedder.Embed(ctx, text)
	if err != nil || len(vec) == 0 {
		log.Warn().
			Str("component", "semantic-matcher").
			Err(err).
			Msg("Query embedding unavailable, skipping semantic matches")
		return nil
	}

	res, err := m.techniques.Query(ctx, vec, n)
	if err != nil {
		log.Warn().
			Str("component", "semantic-matcher").
			Err(err).
			Msg("Technique query failed, skipping semantic matches")
		return nil
	}

	matches := make([]rules.Match, 0, res.Len())
	for i := range res.IDs {
		var meta map[string]any
		if i < len(res.Metadatas) {
			meta = res.Metadatas[i]
		}

		match := rules.Match{
			TechniqueID: cast.ToString(meta["technique_id"]),
			Name:        cast.ToString(meta["name"]),
			Tactic:      cast.ToString(meta["tactic"]),
			Description: cast.ToString(meta["description"]),
			Tags:        splitTags(meta["tags"]),
		}
		if i < len(res.Documents) {
			match.Evidence = res.Documents[i]
		}
		if i < len(res.Distances) {
			d := res.Distances[i]
			match.Distance = &d
		}
		matches = append(matches, match)
	}
	return matches
}

// splitTags undoes the comma-joining applied when rules are seeded; vector
// store metadata values are scalars.
func splitTags(v any) []string {
	s := cast.ToString(v)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
