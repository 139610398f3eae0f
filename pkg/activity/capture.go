package activity

import (
	"context"
	"sync"
)

// CaptureHook records events in memory, mostly for tests and examples.
type CaptureHook struct {
	Events []Event
	// Err is returned from every Notify call.
	Err error
	mu  sync.Mutex
}

// Notify records the event and returns Err.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// ByVerb returns the captured events with the given verb, in arrival order.
func (h *CaptureHook) ByVerb(verb Verb) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Event
	for _, event := range h.Events {
		if event.Verb == verb {
			out = append(out, event)
		}
	}
	return out
}
