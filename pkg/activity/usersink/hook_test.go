package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-fields/pkg/activity"
	"github.com/goliatone/go-fields/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookRecordsDrift(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()

	event := activity.DriftEvent("post_12", activity.DriftDetail{
		Field:  "sections",
		Key:    "sections",
		Reason: "unknown_variant",
		Ref:    "gallery",
		Row:    2,
	})
	event.ActorID = actorID.String()
	event.TenantID = tenantID.String()
	event.Channel = "fields"
	event.OccurredAt = now
	event.Metadata = map[string]any{"request_id": "r-1"}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected ids: actor %s tenant %s", record.ActorID, record.TenantID)
	}
	if record.Verb != "fields.drift" || record.ObjectType != "fields.drift" || record.ObjectID != "post_12" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "fields" {
		t.Fatalf("expected channel fields got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	want := map[string]any{
		"field":      "sections",
		"key":        "sections",
		"reason":     "unknown_variant",
		"ref":        "gallery",
		"row":        2,
		"request_id": "r-1",
	}
	for key, value := range want {
		if record.Data[key] != value {
			t.Fatalf("data[%s] = %v, want %v", key, record.Data[key], value)
		}
	}
}

func TestRecordSummaryAndNonUUIDActor(t *testing.T) {
	record := usersink.Record(activity.Event{
		Verb:    activity.VerbResolved,
		Subject: "options",
		ActorID: "cron",
		Summary: &activity.Summary{Fields: 3, Reads: 5},
	})

	if record.ActorID != uuid.Nil {
		t.Fatalf("non-uuid actor should map to uuid.Nil, got %s", record.ActorID)
	}
	if record.ObjectType != "fields" || record.ObjectID != "options" {
		t.Fatalf("unexpected object: %s %s", record.ObjectType, record.ObjectID)
	}
	if record.Data["field_count"] != 3 || record.Data["read_count"] != 5 || record.Data["drift_count"] != 0 {
		t.Fatalf("unexpected summary data %+v", record.Data)
	}
	if record.OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestHookReturnsSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.ResolvedEvent("post_1", activity.Summary{}))
	if err == nil || err.Error() != "sink down" {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestHookWithoutSinkIsNoop(t *testing.T) {
	if err := (usersink.Hook{}).Notify(context.Background(), activity.ResolvedEvent("post_1", activity.Summary{})); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
