package normalize

import "strings"

// normalizeZeek handles Zeek connection-style records. It accepts both native
// Zeek JSON keys (id.orig_h) and pre-normalized spellings (src_ip).
func normalizeZeek(raw map[string]any) Evidence {
	ts := stringAt(raw, "ts", "timestamp")
	src := stringAt(raw, "id.orig_h", "src_ip")
	dst := stringAt(raw, "id.resp_h", "dst_ip")
	proto := stringAt(raw, "proto")
	service := stringAt(raw, "service")

	eventType := "zeek"
	if proto != nil {
		eventType = *proto
	}

	// Short human-readable line for embedding and display: connection id,
	// endpoints, protocol, service, in that order, skipping absent values.
	var parts []string
	for _, p := range []*string{stringAt(raw, "uid"), src, dst, proto, service} {
		if p != nil {
			parts = append(parts, *p)
		}
	}

	return Evidence{
		Timestamp: ts,
		SourceIP:  src,
		DestIP:    dst,
		EventType: eventType,
		Message:   strings.Join(parts, " "),
		Raw:       raw,
	}
}
