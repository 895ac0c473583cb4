// Package normalize converts raw security-log records from supported sources
// (Zeek connection logs, Windows event logs, AWS CloudTrail) into a canonical
// evidence schema suitable for embedding and retrieval.
package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Source identifies a supported log source kind.
type Source string

const (
	SourceZeek       Source = "zeek"
	SourceWindows    Source = "windows"
	SourceCloudTrail Source = "cloudtrail"
)

// ParseSource maps a user-declared source name to a Source.
// The second return value is false for unknown names.
func ParseSource(s string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceZeek:
		return SourceZeek, true
	case SourceWindows:
		return SourceWindows, true
	case SourceCloudTrail:
		return SourceCloudTrail, true
	}
	return "", false
}

// Evidence is the canonical normalized form of one raw log record.
// Nullable fields are pointers; absent values stay nil rather than erroring.
type Evidence struct {
	Timestamp *string
	SourceIP  *string
	DestIP    *string
	EventType string
	Message   string

	// Raw retains the original record for traceability. It is never written
	// to stored metadata.
	Raw map[string]any
}

// maxMessageLen caps verbose source messages so embeddings stay bounded.
// The cap counts characters, not bytes; truncation must never split a rune.
const maxMessageLen = 2000

// truncate caps s at n characters, preserving rune boundaries.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Normalize maps a raw record to canonical Evidence for the given source.
// It is total: missing or oddly typed fields degrade to nil/empty, never to
// an error, and the output is deterministic for a given input.
func Normalize(raw map[string]any, kind Source) Evidence {
	switch kind {
	case SourceWindows:
		return normalizeWindows(raw)
	case SourceCloudTrail:
		return normalizeCloudTrail(raw)
	default:
		return normalizeZeek(raw)
	}
}

// stringAt returns the first alias key whose value converts to a non-empty
// string. Alias order encodes real-world schema drift: earlier spellings win.
func stringAt(raw map[string]any, aliases ...string) *string {
	for _, key := range aliases {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		s := cast.ToString(v)
		if s == "" {
			continue
		}
		return &s
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
