package rules

import "strings"

// Match is one technique match, from either the keyword matcher or semantic
// retrieval. Evidence holds the literal matched pattern for keyword matches
// and the matched document text for semantic ones; (TechniqueID, Evidence)
// is the deduplication key throughout.
type Match struct {
	TechniqueID string   `json:"technique_id"`
	Name        string   `json:"name"`
	Tactic      string   `json:"tactic"`
	Evidence    string   `json:"evidence"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
}

// Key returns the deduplication key for a match.
func (m Match) Key() [2]string {
	return [2]string{m.TechniqueID, m.Evidence}
}

// Match scans the incident text against every rule in configuration order.
// Per rule, the first pattern found wins and scanning of that rule stops, so
// a rule contributes at most one match. The result is deduplicated by
// (technique id, evidence) preserving first-seen order.
func (s *Set) Match(text string) []Match {
	low := strings.ToLower(text)

	var found []Match
	for _, r := range s.Rules {
		for i, p := range r.loweredPatterns {
			if strings.Contains(low, p) {
				found = append(found, Match{
					TechniqueID: r.ID,
					Name:        r.Name,
					Tactic:      r.Tactic,
					Evidence:    r.Patterns[i],
				})
				break
			}
		}
	}

	seen := make(map[[2]string]struct{}, len(found))
	uniq := found[:0]
	for _, m := range found {
		if _, dup := seen[m.Key()]; dup {
			continue
		}
		seen[m.Key()] = struct{}{}
		uniq = append(uniq, m)
	}
	return uniq
}
