package normalize

// normalizeWindows handles Windows event log records (e.g. event IDs 4104,
// 4688) exported by winlogbeat-style shippers.
func normalizeWindows(raw map[string]any) Evidence {
	ts := stringAt(raw, "TimeCreated", "@timestamp")
	src := stringAt(raw, "IpAddress", "SourceIp", "SourceNetworkAddress")
	dst := stringAt(raw, "DestIp", "DestinationIp")
	eid := stringAt(raw, "EventID", "EventId", "EventID.code")

	eventType := "win"
	if eid != nil {
		eventType = "win:" + *eid
	}

	// Prefer the verbose rendered description when present, trimmed so a
	// single record cannot blow up the embedding input.
	message := truncate(deref(stringAt(raw, "Message", "RenderedDescription", "Details")), maxMessageLen)

	return Evidence{
		Timestamp: ts,
		SourceIP:  src,
		DestIP:    dst,
		EventType: eventType,
		Message:   message,
		Raw:       raw,
	}
}
