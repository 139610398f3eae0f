package activity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Verb names what happened during a resolution.
type Verb string

const (
	// VerbResolved closes a resolution pass.
	VerbResolved Verb = "fields.resolved"
	// VerbDrift reports one field, row or reference that was skipped.
	VerbDrift Verb = "fields.drift"
)

// Event is one resolution occurrence. Resolved events carry a Summary, drift
// events a Drift detail.
type Event struct {
	Verb       Verb
	Subject    string
	ActorID    string
	TenantID   string
	Channel    string
	Summary    *Summary
	Drift      *DriftDetail
	Metadata   map[string]any
	OccurredAt time.Time
}

// Summary counts what a resolution pass produced.
type Summary struct {
	Fields int
	Reads  int
	Drift  int
}

// DriftDetail locates a skipped piece of the schema. Row is -1 when the drift
// is not tied to a variant row.
type DriftDetail struct {
	Field  string
	Key    string
	Reason string
	Ref    string
	Row    int
}

// ObjectType groups events for sinks that index by object kind.
func (e Event) ObjectType() string {
	if e.Verb == VerbDrift {
		return "fields.drift"
	}
	return "fields"
}

// Data flattens the summary or drift detail together with Metadata into a
// single map. Metadata never overrides the structured keys.
func (e Event) Data() map[string]any {
	data := make(map[string]any, len(e.Metadata)+5)
	for key, value := range e.Metadata {
		data[key] = value
	}
	if s := e.Summary; s != nil {
		data["field_count"] = s.Fields
		data["read_count"] = s.Reads
		data["drift_count"] = s.Drift
	}
	if d := e.Drift; d != nil {
		data["field"] = d.Field
		data["key"] = d.Key
		data["reason"] = d.Reason
		if d.Ref != "" {
			data["ref"] = d.Ref
		}
		if d.Row >= 0 {
			data["row"] = d.Row
		}
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

// ActivityHook receives normalized activity events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Only forwards events whose verb is listed to hook.
func Only(hook ActivityHook, verbs ...Verb) ActivityHook {
	allowed := make(map[Verb]struct{}, len(verbs))
	for _, verb := range verbs {
		allowed[verb] = struct{}{}
	}
	return HookFunc(func(ctx context.Context, event Event) error {
		if hook == nil {
			return nil
		}
		if _, ok := allowed[event.Verb]; !ok {
			return nil
		}
		return hook.Notify(ctx, event)
	})
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes the event and forwards it to every hook, joining their
// errors. Events without a verb or subject are dropped.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}

	normalized := NormalizeEvent(event)
	if normalized.Verb == "" || normalized.Subject == "" {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compact returns hooks without nil entries, or nil when none remain.
func (h Hooks) Compact() Hooks {
	var out Hooks
	for _, hook := range h {
		if hook != nil {
			out = append(out, hook)
		}
	}
	return out
}

// NormalizeEvent trims identifiers, copies the detail structs and metadata,
// and stamps a timestamp when none is set.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Verb = Verb(strings.TrimSpace(string(event.Verb)))
	normalized.Subject = strings.TrimSpace(event.Subject)
	normalized.ActorID = strings.TrimSpace(event.ActorID)
	normalized.TenantID = strings.TrimSpace(event.TenantID)
	normalized.Channel = strings.TrimSpace(event.Channel)
	normalized.Metadata = cloneMap(event.Metadata)
	if event.Summary != nil {
		summary := *event.Summary
		normalized.Summary = &summary
	}
	if event.Drift != nil {
		drift := *event.Drift
		normalized.Drift = &drift
	}
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
