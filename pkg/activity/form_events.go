package activity

import (
	"strings"
	"time"
)

// Verbs emitted for form storage.
const (
	VerbFieldUpdated     = "form.field.updated"
	VerbFieldRemoved     = "form.field.removed"
	VerbDocumentModified = "form.modified"
	VerbDocumentReset    = "form.reset"
)

// FormEventInput carries the fields shared by form events.
type FormEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	DocumentID string
	Key        string
	Field      string
	Group      string
	Value      map[string]any
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildFieldUpdatedEvent describes a write that modified a field entry.
func BuildFieldUpdatedEvent(input FormEventInput) Event {
	return buildFormEvent(VerbFieldUpdated, "form.field", input)
}

// BuildFieldRemovedEvent describes the removal of a field entry.
func BuildFieldRemovedEvent(input FormEventInput) Event {
	return buildFormEvent(VerbFieldRemoved, "form.field", input)
}

// BuildDocumentModifiedEvent describes the document becoming modified.
func BuildDocumentModifiedEvent(input FormEventInput) Event {
	return buildFormEvent(VerbDocumentModified, "form", input)
}

// BuildDocumentResetEvent describes the modified flag being cleared.
func BuildDocumentResetEvent(input FormEventInput) Event {
	return buildFormEvent(VerbDocumentReset, "form", input)
}

func buildFormEvent(verb, objectType string, input FormEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(name string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[name] = value
	}
	if input.DocumentID != "" {
		set("document_id", input.DocumentID)
	}
	if input.Key != "" {
		set("key", input.Key)
	}
	if input.Field != "" {
		set("field", input.Field)
	}
	if input.Group != "" {
		set("group", input.Group)
	}
	if len(input.Value) > 0 {
		set("value", cloneMap(input.Value))
	}

	objectID := strings.TrimSpace(input.Key)
	if objectType == "form" || objectID == "" {
		objectID = strings.TrimSpace(input.DocumentID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
