package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestNormalizeZeek(t *testing.T) {
	raw := map[string]any{
		"ts":        "2024-01-01T00:00:00Z",
		"uid":       "CxT9a4",
		"id.orig_h": "10.0.0.5",
		"id.resp_h": "8.8.8.8",
		"proto":     "dns",
		"service":   "dns",
	}

	ev := Normalize(raw, SourceZeek)

	require.Equal(t, "2024-01-01T00:00:00Z", *ev.Timestamp)
	require.Equal(t, "10.0.0.5", *ev.SourceIP)
	require.Equal(t, "8.8.8.8", *ev.DestIP)
	require.Equal(t, "dns", ev.EventType)
	require.Equal(t, "CxT9a4 10.0.0.5 8.8.8.8 dns dns", ev.Message)
}

func TestNormalizeZeek_AliasKeys(t *testing.T) {
	ev := Normalize(map[string]any{
		"timestamp": "2024-01-01T00:00:00Z",
		"src_ip":    "10.0.0.5",
		"dst_ip":    "8.8.8.8",
	}, SourceZeek)

	require.Equal(t, "10.0.0.5", *ev.SourceIP)
	require.Equal(t, "8.8.8.8", *ev.DestIP)
	require.Equal(t, "zeek", ev.EventType, "missing proto falls back to source token")
	require.Equal(t, "10.0.0.5 8.8.8.8", ev.Message)
}

func TestNormalizeZeek_MissingFields(t *testing.T) {
	ev := Normalize(map[string]any{}, SourceZeek)

	require.Nil(t, ev.Timestamp)
	require.Nil(t, ev.SourceIP)
	require.Nil(t, ev.DestIP)
	require.Equal(t, "zeek", ev.EventType)
	require.Equal(t, "", ev.Message)
}

func TestNormalizeWindows(t *testing.T) {
	raw := map[string]any{
		"TimeCreated": "2024-02-02T10:00:00Z",
		"EventID":     float64(4688), // JSON numbers decode to float64
		"IpAddress":   "192.168.1.7",
		"Message":     "A new process has been created.",
	}

	ev := Normalize(raw, SourceWindows)

	require.Equal(t, "win:4688", ev.EventType)
	require.Equal(t, "192.168.1.7", *ev.SourceIP)
	require.Equal(t, "A new process has been created.", ev.Message)
}

func TestNormalizeWindows_MessageAliasesAndTruncation(t *testing.T) {
	long := strings.Repeat("x", 5000)
	ev := Normalize(map[string]any{
		"EventId":             "4104",
		"RenderedDescription": long,
	}, SourceWindows)

	require.Equal(t, "win:4104", ev.EventType)
	require.Len(t, ev.Message, 2000)

	ev = Normalize(map[string]any{"Details": "short"}, SourceWindows)
	require.Equal(t, "win", ev.EventType)
	require.Equal(t, "short", ev.Message)
}

func TestNormalizeWindows_TruncationKeepsRuneBoundaries(t *testing.T) {
	// A multibyte rune straddling the cap must be dropped whole, never split.
	long := strings.Repeat("x", 1999) + strings.Repeat("é", 100)
	ev := Normalize(map[string]any{"Message": long}, SourceWindows)

	require.True(t, utf8.ValidString(ev.Message))
	require.Equal(t, 2000, utf8.RuneCountInString(ev.Message))
	require.True(t, strings.HasSuffix(ev.Message, "é"))

	// A message of exactly the cap passes through unchanged.
	exact := strings.Repeat("é", 2000)
	ev = Normalize(map[string]any{"Message": exact}, SourceWindows)
	require.Equal(t, exact, ev.Message)
}

func TestNormalizeCloudTrail(t *testing.T) {
	raw := map[string]any{
		"eventTime":       "2024-03-03T12:00:00Z",
		"eventName":       "ConsoleLogin",
		"sourceIPAddress": "203.0.113.9",
		"userIdentity":    map[string]any{"arn": "arn:aws:iam::123:user/alice"},
	}

	ev := Normalize(raw, SourceCloudTrail)

	require.Equal(t, "aws:ConsoleLogin", ev.EventType)
	require.Equal(t, "ConsoleLogin by arn:aws:iam::123:user/alice", ev.Message)
	require.Equal(t, "203.0.113.9", *ev.SourceIP)
	require.Nil(t, ev.DestIP)
}

func TestNormalizeCloudTrail_ActorFallback(t *testing.T) {
	ev := Normalize(map[string]any{
		"userIdentity": map[string]any{"userName": "bob"},
	}, SourceCloudTrail)
	require.Equal(t, "cloudtrail event by bob", ev.Message)
	require.Equal(t, "aws", ev.EventType)

	ev = Normalize(map[string]any{}, SourceCloudTrail)
	require.Equal(t, "cloudtrail event by unknown", ev.Message)
}

func TestNormalizeIsPure(t *testing.T) {
	raw := map[string]any{
		"ts":        "2024-01-01T00:00:00Z",
		"id.orig_h": "10.0.0.5",
		"proto":     "tcp",
	}

	first := Normalize(raw, SourceZeek)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Normalize(raw, SourceZeek))
	}
}

func TestDetect_SignatureKeys(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want Source
	}{
		{"cloudtrail via eventName", map[string]any{"eventName": "PutObject"}, SourceCloudTrail},
		{"windows via EventID", map[string]any{"EventID": 4625}, SourceWindows},
		{"zeek via id.orig_h", map[string]any{"id.orig_h": "10.0.0.1"}, SourceZeek},
		{"cloudtrail beats windows", map[string]any{"eventTime": "t", "TimeCreated": "t"}, SourceCloudTrail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Detect(tc.raw))
		})
	}
}

func TestDetect_ScoredFallback(t *testing.T) {
	// No signature key present; only the zeek normalizer extracts anything
	// from these spellings.
	src := Detect(map[string]any{"src_ip": "10.0.0.1", "dst_ip": "10.0.0.2"})
	require.Equal(t, SourceZeek, src)

	// Nothing extractable anywhere: priority order decides.
	require.Equal(t, SourceCloudTrail, Detect(map[string]any{"unrelated": true}))
}

func TestParseSource(t *testing.T) {
	src, ok := ParseSource(" Windows ")
	require.True(t, ok)
	require.Equal(t, SourceWindows, src)

	_, ok = ParseSource("syslog")
	require.False(t, ok)
}
