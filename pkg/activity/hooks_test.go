package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	drift := &DriftDetail{Field: "sections", Row: 1}
	evt := Event{
		Verb:     " fields.drift ",
		Subject:  " post_42 ",
		ActorID:  " actor ",
		TenantID: " tenant ",
		Channel:  " fields ",
		Drift:    drift,
		Metadata: meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != VerbDrift || got.Subject != "post_42" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.TenantID != "tenant" || got.Channel != "fields" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if meta["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", meta)
	}
	got.Drift.Row = 7
	if drift.Row != 1 {
		t.Fatalf("expected original drift detail untouched: %+v", drift)
	}
}

func TestHooksNotifyDropsIncompleteEvents(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{Verb: VerbResolved}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := hooks.Notify(context.Background(), Event{Subject: "post_1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return boom1 }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, DriftEvent("post_1", DriftDetail{Row: -1}))
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events))
	}
}

func TestOnlyFiltersVerbs(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{Only(capture, VerbDrift)}

	_ = hooks.Notify(context.Background(), ResolvedEvent("post_1", Summary{}))
	_ = hooks.Notify(context.Background(), DriftEvent("post_1", DriftDetail{Reason: "depth_exceeded", Row: -1}))

	if len(capture.Events) != 1 || capture.Events[0].Verb != VerbDrift {
		t.Fatalf("expected only the drift event, got %+v", capture.Events)
	}
	if len(capture.ByVerb(VerbResolved)) != 0 {
		t.Fatalf("resolved events should have been filtered")
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), ResolvedEvent("post_1", Summary{})); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}

	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("nil emitter must report disabled")
	}
}

func TestEmitterPreservesExplicitValues(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default", ActorID: "svc"})

	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	event := ResolvedEvent("post_1", Summary{})
	event.Channel = "custom"
	event.ActorID = "editor"
	event.OccurredAt = occurred
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events[0]
	if got.Channel != "custom" || got.ActorID != "editor" {
		t.Fatalf("expected explicit values preserved, got %+v", got)
	}
	if !got.OccurredAt.Equal(occurred) {
		t.Fatalf("expected occurred_at preserved, got %v", got.OccurredAt)
	}
}
