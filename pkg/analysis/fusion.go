package analysis

import "github.com/sentra-ai/sentra/pkg/rules"

// Fuse merges heuristic and semantic technique matches into one ordered,
// non-redundant list. Heuristic matches are authoritative and come first in
// their original order; semantic matches follow in retrieval-rank order,
// each appended only when no earlier entry shares its (technique id,
// evidence) pair. The same technique with different evidence survives twice:
// a keyword hit and a semantically similar rule document are distinct
// findings. This is a union, not a blend: no cross-source re-ranking.
func Fuse(heuristic, semantic []rules.Match) []rules.Match {
	fused := make([]rules.Match, 0, len(heuristic)+len(semantic))
	seen := make(map[[2]string]struct{}, len(heuristic))

	for _, m := range heuristic {
		fused = append(fused, m)
		seen[m.Key()] = struct{}{}
	}
	for _, m := range semantic {
		if _, dup := seen[m.Key()]; dup {
			continue
		}
		seen[m.Key()] = struct{}{}
		fused = append(fused, m)
	}
	return fused
}
