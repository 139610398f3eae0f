package fields

import (
	"context"

	"github.com/goliatone/go-fields/pkg/activity"
)

// WithActivityHooks emits resolution activity to hooks. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	compact := hooks.Compact()
	return func(cfg *config) {
		if len(compact) == 0 {
			cfg.emitter = nil
			return
		}
		cfg.emitter = activity.NewEmitter(compact, activity.Config{Enabled: true})
	}
}

// WithActivityEmitter emits resolution activity through a preconfigured
// emitter.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(cfg *config) {
		cfg.emitter = emitter
	}
}

// emitActivity publishes one event per drift record followed by a summary
// event. Hook failures are logged and never fail the resolution.
func (r *Resolver) emitActivity(ctx context.Context, subject string, values *Values, trace *Trace) {
	emitter := r.cfg.emitter
	if !emitter.Enabled() {
		return
	}
	for _, drift := range trace.Drift {
		r.logEmitError(subject, emitter.Emit(ctx, activity.DriftEvent(subject, activity.DriftDetail{
			Field:  drift.Field,
			Key:    drift.Key,
			Reason: string(drift.Reason),
			Ref:    drift.Ref,
			Row:    drift.Row,
		})))
	}
	r.logEmitError(subject, emitter.Emit(ctx, activity.ResolvedEvent(subject, activity.Summary{
		Fields: values.Len(),
		Reads:  len(trace.Reads),
		Drift:  len(trace.Drift),
	})))
}

func (r *Resolver) logEmitError(subject string, err error) {
	if err == nil {
		return
	}
	r.cfg.logger.Log(LogEvent{
		Level:   LogLevelError,
		Subject: subject,
		Message: "activity hook failed",
		Err:     err,
	})
}
