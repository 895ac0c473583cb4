package normalize

// detectRule ties a source kind to the signature keys that identify it.
// Rules are evaluated in order, so the slice doubles as the priority list
// used both for signature detection and for score tie-breaking.
type detectRule struct {
	kind Source
	keys []string
}

var detectRules = []detectRule{
	{SourceCloudTrail, []string{"eventName", "userIdentity", "eventTime"}},
	{SourceWindows, []string{"EventID", "TimeCreated", "ProcessName"}},
	{SourceZeek, []string{"ts", "id.orig_h", "id.resp_h", "proto"}},
}

// Detect picks the source kind for an undeclared record. Signature keys are
// checked first in fixed priority order. When none match, every normalizer
// runs and the one yielding the most populated Evidence wins, ties resolved
// by the same priority order.
func Detect(raw map[string]any) Source {
	for _, rule := range detectRules {
		for _, key := range rule.keys {
			if _, ok := raw[key]; ok {
				return rule.kind
			}
		}
	}

	best := detectRules[0].kind
	bestScore := -1
	for _, rule := range detectRules {
		if score := fieldCount(Normalize(raw, rule.kind)); score > bestScore {
			best = rule.kind
			bestScore = score
		}
	}
	return best
}

// fieldCount counts populated Evidence fields. EventType, Message, and Raw
// are always set, so only the nullable fields differentiate candidates.
func fieldCount(ev Evidence) int {
	n := 3
	for _, p := range []*string{ev.Timestamp, ev.SourceIP, ev.DestIP} {
		if p != nil {
			n++
		}
	}
	return n
}
