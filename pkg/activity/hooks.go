// Package activity fans out form activity (field writes, removals and
// modified-flag edges) to pluggable hooks.
package activity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Event describes one activity occurrence. IDs are plain strings so callers
// are not tied to a particular identifier type.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// ActivityHook receives normalized events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc lets a plain function act as an ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify calls fn.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks is an ordered set of hooks notified together.
type Hooks []ActivityHook

// Enabled reports whether any hook is present.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes event and delivers it to every hook. Events without a
// verb, object type or object id are dropped. Hook failures do not stop
// delivery; they are joined into the returned error.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}

	normalized := NormalizeEvent(event)
	if !normalized.routable() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e Event) routable() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// NormalizeEvent trims identifiers, detaches metadata and recipients from the
// caller and stamps a missing timestamp.
func NormalizeEvent(event Event) Event {
	out := event
	for _, field := range []*string{
		&out.Verb, &out.ActorID, &out.UserID, &out.TenantID,
		&out.ObjectType, &out.ObjectID, &out.Channel, &out.DefinitionCode,
	} {
		*field = strings.TrimSpace(*field)
	}
	out.Metadata = cloneMap(event.Metadata)
	out.Recipients = nil
	if len(event.Recipients) > 0 {
		out.Recipients = append([]string{}, event.Recipients...)
	}
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now()
	}
	return out
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
