package formstate

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-formstate/pkg/activity"
)

func TestStoreEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(
		WithActivityHooks(activity.Hooks{capture, nil}),
		WithDocumentID("doc-1"),
		WithClock(func() time.Time { return fixed }),
	)

	_ = s.SetValue("1R", "Name", Record{"value": "A"}, WithGroup("g"))
	_ = s.SetValue("1R", "Name", Record{"value": "A"})
	s.Remove("1R")

	want := []string{
		activity.VerbDocumentModified,
		activity.VerbFieldUpdated,
		activity.VerbFieldRemoved,
		activity.VerbDocumentReset,
	}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected verbs: %v", got)
	}

	updated := capture.Events[1]
	if updated.ObjectType != "form.field" || updated.ObjectID != "1R" {
		t.Fatalf("unexpected field object: %s/%s", updated.ObjectType, updated.ObjectID)
	}
	if updated.Channel != activity.DefaultChannel || !updated.OccurredAt.Equal(fixed) {
		t.Fatalf("unexpected channel or time: %s %v", updated.Channel, updated.OccurredAt)
	}
	if updated.Metadata["group"] != "g" || updated.Metadata["document_id"] != "doc-1" {
		t.Fatalf("unexpected metadata: %#v", updated.Metadata)
	}
	if capture.Events[0].ObjectID != "doc-1" {
		t.Fatalf("expected document events to target the document, got %q", capture.Events[0].ObjectID)
	}
	if len(s.ActivityHooks()) != 1 {
		t.Fatalf("expected nil hooks to be dropped")
	}
}

func TestStoreActivityDisabled(t *testing.T) {
	capture := &activity.CaptureHook{}
	s := NewStore(
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityConfig(activity.Config{Enabled: false}),
	)
	_ = s.SetValue("1R", "Name", Record{"value": "A"})
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events when activity is disabled")
	}
}

func TestStoreHookErrorDoesNotFailWrite(t *testing.T) {
	boom := errors.New("sink down")
	capture := &activity.CaptureHook{Err: boom}
	var logged []error
	s := NewStore(
		WithActivityHooks(activity.Hooks{capture}),
		WithStoreLogger(StoreLoggerFunc(func(event StoreLogEvent) {
			if event.Op == "activity" {
				logged = append(logged, event.Err)
			}
		})),
	)
	if err := s.SetValue("1R", "Name", Record{"value": "A"}); err != nil {
		t.Fatalf("expected write to succeed, got %v", err)
	}
	if len(logged) != 2 || !errors.Is(logged[0], boom) {
		t.Fatalf("expected hook failures to be logged, got %v", logged)
	}
}
