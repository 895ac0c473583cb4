package analysis

import (
	"fmt"
	"strings"
)

// analystPrompt instructs the generator. Technique IDs are excluded from the
// narrative because the deterministic matchers report them separately.
const analystPrompt = "You are an incident response assistant.\n" +
	"Given: (1) a fresh INCIDENT LOG, (2) RELATED EVIDENCE EXCERPTS, produce:\n" +
	"- a concise 4-8 line summary of what likely happened,\n" +
	"- prioritized next steps (bulleted), concrete and actionable, low-regret.\n" +
	"Be concise, cite evidence by [Doc#] where appropriate.\n" +
	"IMPORTANT: Do NOT list or enumerate MITRE ATT&CK technique IDs in your response — " +
	"technique matches are reported separately by a deterministic matcher."

// BuildPrompt assembles the generation prompt from the incident text and the
// retrieved evidence, labeled [Doc1], [Doc2], ... in retrieval order.
func BuildPrompt(incident string, hits []Hit) string {
	var ctx strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&ctx, "[Doc%d] %s\n", i+1, h.Text)
	}
	return fmt.Sprintf("%s\n\nINCIDENT LOG:\n%s\n\nRELATED EVIDENCE:\n%s", analystPrompt, incident, ctx.String())
}
