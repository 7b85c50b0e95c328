// Package usersink forwards form activity into a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-formstate/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events to a go-users ActivitySink. Store events carry
// no identity, so the session's actor and tenant can be supplied here and are
// used whenever an event leaves them blank.
type Hook struct {
	Sink     usertypes.ActivitySink
	ActorID  string
	TenantID string
}

// Notify maps the event into an ActivityRecord and logs it.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actorID := firstNonEmpty(normalized.ActorID, h.ActorID)
	record := usertypes.ActivityRecord{
		ActorID:    parseUUID(actorID),
		UserID:     parseUUID(firstNonEmpty(normalized.UserID, actorID)),
		TenantID:   parseUUID(firstNonEmpty(normalized.TenantID, h.TenantID)),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       normalized.Metadata,
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	if normalized.DefinitionCode != "" {
		record.Data = withData(record.Data, "definition_code", normalized.DefinitionCode)
	}
	if len(normalized.Recipients) > 0 {
		record.Data = withData(record.Data, "recipients", normalized.Recipients)
	}

	return h.Sink.Log(ctx, record)
}

func withData(data map[string]any, key string, value any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data[key] = value
	return data
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
