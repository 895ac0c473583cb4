// Package rules loads the curated attack-technique rule set and provides the
// deterministic keyword matcher used during incident analysis. The rule set
// is loaded once at startup and treated as immutable for the process
// lifetime.
package rules

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Rule is one curated attack-technique definition. Patterns are ordered
// case-insensitive substrings; the description doubles as the document text
// for semantic matching.
type Rule struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Tactic      string   `yaml:"tactic"`
	Description string   `yaml:"description"`
	Patterns    []string `yaml:"patterns"`
	Tags        []string `yaml:"tags"`

	// Lowercased patterns, prepared at load time.
	loweredPatterns []string
}

// Set is an immutable, ordered technique rule set.
type Set struct {
	Rules []Rule
}

// ruleFile is the on-disk shape of a rule set.
type ruleFile struct {
	SchemaVersion string `yaml:"schema_version"`
	Rules         []Rule `yaml:"rules"`
}

// schemaConstraint pins the rule file format we know how to read.
var schemaConstraint = semver.MustParse("1.0.0")

// Parse decodes and validates a YAML rule set.
func Parse(data []byte) (*Set, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rule set: %w", err)
	}

	if file.SchemaVersion != "" {
		v, err := semver.NewVersion(file.SchemaVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid rule schema_version %q: %w", file.SchemaVersion, err)
		}
		if v.Major() != schemaConstraint.Major() {
			return nil, fmt.Errorf("unsupported rule schema_version %q (want %d.x)", file.SchemaVersion, schemaConstraint.Major())
		}
	}

	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule set contains no rules")
	}

	for i, r := range file.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule %d: missing id", i)
		}
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("rule %s: missing patterns", r.ID)
		}
	}

	return &Set{Rules: prepare(file.Rules)}, nil
}

// prepare lowercases patterns once so Match never re-folds per call.
func prepare(rs []Rule) []Rule {
	for i := range rs {
		rs[i].loweredPatterns = make([]string, len(rs[i].Patterns))
		for j, p := range rs[i].Patterns {
			rs[i].loweredPatterns[j] = strings.ToLower(p)
		}
	}
	return rs
}

// Document renders the text that represents a rule in the technique vector
// collection: identifier, name, description, patterns, and tags joined into
// one embedding surface.
func (r Rule) Document() string {
	parts := []string{r.ID, r.Name, r.Description}
	parts = append(parts, r.Patterns...)
	parts = append(parts, r.Tags...)
	return strings.Join(parts, " ")
}
