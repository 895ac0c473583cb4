package rules

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed data/rules.yaml
var embeddedRulesYAML []byte

// Load returns the rule set from path, or the embedded default set when path
// is empty. A broken rule file is a startup failure, not something to limp
// past: analysis without rules is useless.
func Load(path string) (*Set, error) {
	if path == "" {
		return Parse(embeddedRulesYAML)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file %s: %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return set, nil
}
