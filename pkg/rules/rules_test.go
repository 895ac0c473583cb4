package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRulesYAML = `
schema_version: "1.0.0"
rules:
  - id: T1003
    name: OS Credential Dumping
    tactic: credential-access
    description: Dumping credentials from LSASS memory.
    patterns: ["mimikatz", "lsass dump"]
    tags: [credentials]
  - id: T1110
    name: Brute Force
    tactic: credential-access
    description: Password guessing against accounts.
    patterns: ["brute force", "failed login"]
    tags: [authentication]
`

func mustParse(t *testing.T, data string) *Set {
	t.Helper()
	set, err := Parse([]byte(data))
	require.NoError(t, err)
	return set
}

func TestParse(t *testing.T) {
	set := mustParse(t, testRulesYAML)
	require.Len(t, set.Rules, 2)
	require.Equal(t, "T1003", set.Rules[0].ID)
	require.Equal(t, []string{"mimikatz", "lsass dump"}, set.Rules[0].Patterns)
}

func TestParse_SchemaVersion(t *testing.T) {
	_, err := Parse([]byte(`
schema_version: "2.0.0"
rules:
  - id: T1003
    name: n
    tactic: t
    patterns: [p]
`))
	require.ErrorContains(t, err, "unsupported rule schema_version")

	_, err = Parse([]byte(`
schema_version: "not-a-version"
rules:
  - id: T1003
    name: n
    tactic: t
    patterns: [p]
`))
	require.ErrorContains(t, err, "invalid rule schema_version")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("rules: []"))
	require.ErrorContains(t, err, "no rules")

	_, err = Parse([]byte("rules:\n  - name: missing-id\n    patterns: [x]"))
	require.ErrorContains(t, err, "missing id")

	_, err = Parse([]byte("rules:\n  - id: T9999\n    name: n"))
	require.ErrorContains(t, err, "missing patterns")
}

func TestLoad_EmbeddedDefault(t *testing.T) {
	set, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, set.Rules)

	// The default set must cover credential dumping; analysis smoke tests
	// and the CLI examples rely on it.
	var ids []string
	for _, r := range set.Rules {
		ids = append(ids, r.ID)
	}
	require.Contains(t, ids, "T1003")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRulesYAML), 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	require.Len(t, set.Rules, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMatch_FirstPatternWins(t *testing.T) {
	set := mustParse(t, testRulesYAML)

	matches := set.Match("detected mimikatz usage and lsass dump attempt")

	require.Len(t, matches, 1, "one rule yields at most one match")
	require.Equal(t, "T1003", matches[0].TechniqueID)
	require.Equal(t, "mimikatz", matches[0].Evidence)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	set := mustParse(t, testRulesYAML)

	matches := set.Match("MIMIKATZ.exe spawned after repeated FAILED LOGIN events")

	require.Len(t, matches, 2)
	require.Equal(t, "T1003", matches[0].TechniqueID)
	require.Equal(t, "T1110", matches[1].TechniqueID)
	require.Equal(t, "failed login", matches[1].Evidence)
}

func TestMatch_NoHits(t *testing.T) {
	set := mustParse(t, testRulesYAML)
	require.Empty(t, set.Match("routine dns traffic, nothing interesting"))
}

func TestMatch_Deterministic(t *testing.T) {
	set := mustParse(t, testRulesYAML)
	text := "brute force then mimikatz"

	first := set.Match(text)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, set.Match(text))
	}
}

func TestRuleDocument(t *testing.T) {
	set := mustParse(t, testRulesYAML)
	doc := set.Rules[0].Document()
	require.Contains(t, doc, "T1003")
	require.Contains(t, doc, "OS Credential Dumping")
	require.Contains(t, doc, "mimikatz")
	require.Contains(t, doc, "credentials")
}
