package activity

import "strings"

// ResolvedEvent builds the event that closes a resolution of subject.
func ResolvedEvent(subject string, summary Summary) Event {
	return Event{
		Verb:    VerbResolved,
		Subject: strings.TrimSpace(subject),
		Summary: &summary,
	}
}

// DriftEvent builds the event for one drift record of subject.
func DriftEvent(subject string, detail DriftDetail) Event {
	return Event{
		Verb:    VerbDrift,
		Subject: strings.TrimSpace(subject),
		Drift:   &detail,
	}
}
