// Package usersink records resolution activity in a go-users activity sink.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-fields/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events to a go-users ActivitySink. The resolved
// subject becomes the record's object id.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, Record(event))
}

// Record builds the ActivityRecord stored for event. Identifiers that are not
// UUIDs are recorded as uuid.Nil.
func Record(event activity.Event) usertypes.ActivityRecord {
	normalized := activity.NormalizeEvent(event)
	return usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       string(normalized.Verb),
		ObjectType: normalized.ObjectType(),
		ObjectID:   normalized.Subject,
		Channel:    normalized.Channel,
		Data:       normalized.Data(),
		OccurredAt: normalized.OccurredAt,
	}
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
