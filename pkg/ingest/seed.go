package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sentra-ai/sentra/pkg/rules"
)

// SeedRules embeds every technique rule and stores it in the technique
// collection so the semantic matcher has documents to search. Each rule's
// document is its id, name, description, patterns, and tags joined; tags are
// comma-joined in metadata because vector store metadata values are scalars.
// A rule whose embedding fails is skipped with a warning; an empty technique
// collection is better than one with unsearchable entries.
func SeedRules(ctx context.Context, embedder Embedder, store Store, set *rules.Set) (int, error) {
	texts := make([]string, len(set.Rules))
	metas := make([]map[string]any, len(set.Rules))
	for i, r := range set.Rules {
		texts[i] = r.Document()
		metas[i] = map[string]any{
			"technique_id": r.ID,
			"name":         r.Name,
			"tactic":       r.Tactic,
			"description":  r.Description,
			"tags":         strings.Join(r.Tags, ","),
		}
	}

	vectors := embedder.EmbedMany(ctx, texts)

	var (
		ids      []string
		docs     []string
		outMetas []map[string]any
		outVecs  [][]float64
	)
	for i, vec := range vectors {
		if len(vec) == 0 {
			log.Warn().
				Str("component", "seed").
				Str("technique_id", set.Rules[i].ID).
				Msg("Skipping rule with failed embedding")
			continue
		}
		ids = append(ids, uuid.NewString())
		docs = append(docs, texts[i])
		outMetas = append(outMetas, metas[i])
		outVecs = append(outVecs, vec)
	}

	if len(ids) == 0 {
		return 0, fmt.Errorf("seed rules: no rule could be embedded")
	}

	if err := store.Add(ctx, ids, docs, outMetas, outVecs); err != nil {
		return 0, fmt.Errorf("seed rules: %w", err)
	}

	log.Info().
		Str("component", "seed").
		Int("seeded", len(ids)).
		Msg("Technique rules seeded")
	return len(ids), nil
}
