package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"key": "27R"}
	recipients := []string{" a ", "b "}
	evt := Event{
		Verb:           " form.modified ",
		ActorID:        " actor ",
		TenantID:       " tenant ",
		ObjectType:     " form ",
		ObjectID:       " doc-1 ",
		Channel:        " forms ",
		DefinitionCode: " def ",
		Recipients:     recipients,
		Metadata:       meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "form.modified" || got.ObjectType != "form" || got.ObjectID != "doc-1" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.TenantID != "tenant" || got.Channel != "forms" || got.DefinitionCode != "def" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["key"] = "changed"
	if meta["key"] != "27R" {
		t.Fatalf("expected original metadata untouched: %+v", meta)
	}
	got.Recipients[0] = "changed"
	if recipients[0] != " a " {
		t.Fatalf("expected original recipients untouched: %+v", recipients)
	}
}

func TestHooksNotifyDropsUnroutableEvents(t *testing.T) {
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{Verb: "form.modified"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbFieldUpdated, ObjectType: "form.field", ObjectID: "27R"})
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

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	event := Event{Verb: VerbDocumentModified, ObjectType: "form", ObjectID: "doc"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if err := enabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", capture.Events[0].Channel)
	}
}

func TestEmitterPreservesExplicitChannelAndTime(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbDocumentReset,
		ObjectType: "form",
		ObjectID:   "doc",
		Channel:    "custom",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if capture.Events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", capture.Events[0].Channel)
	}
	if !capture.Events[0].OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved, got %v", capture.Events[0].OccurredAt)
	}
}
