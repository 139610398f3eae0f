package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel is stamped on events that do not name a channel.
const DefaultChannel = "fields"

// Config controls what an Emitter stamps on outgoing events.
type Config struct {
	Enabled bool
	Channel string
	// ActorID and TenantID identify the service doing the resolution when an
	// event carries none.
	ActorID  string
	TenantID string
	// Now overrides the clock used for OccurredAt.
	Now func() time.Time
}

// Emitter fans out events to hooks while applying Config defaults.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter constructs an emitter. It is disabled when cfg.Enabled is false
// or no non-nil hook remains.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Emitter{hooks: hooks.Compact(), cfg: cfg}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit stamps defaults on event and forwards it to all hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.cfg.Channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.cfg.ActorID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.cfg.TenantID
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.cfg.Now()
	}
	return e.hooks.Notify(ctx, event)
}
