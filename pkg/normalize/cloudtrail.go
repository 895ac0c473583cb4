package normalize

import "github.com/spf13/cast"

// normalizeCloudTrail handles AWS CloudTrail audit events. CloudTrail has no
// destination address concept, so DestIP is always nil.
func normalizeCloudTrail(raw map[string]any) Evidence {
	event := stringAt(raw, "eventName", "event_name")
	ts := stringAt(raw, "eventTime", "event_time")
	src := stringAt(raw, "sourceIPAddress", "sourceIpAddress")

	actor := "unknown"
	if identity := cast.ToStringMap(raw["userIdentity"]); identity != nil {
		if who := stringAt(identity, "arn", "userName"); who != nil {
			actor = *who
		}
	}

	eventType := "aws"
	message := "cloudtrail event by " + actor
	if event != nil {
		eventType = "aws:" + *event
		message = *event + " by " + actor
	}

	return Evidence{
		Timestamp: ts,
		SourceIP:  src,
		DestIP:    nil,
		EventType: eventType,
		Message:   message,
		Raw:       raw,
	}
}
