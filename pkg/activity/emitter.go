package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "forms"

// Config controls emission.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter delivers events to hooks, filling in the configured channel.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
}

// NewEmitter builds an emitter. It is disabled when cfg.Enabled is false or no
// non-nil hook is given.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	kept := CompactHooks(hooks)
	return &Emitter{
		hooks:   kept,
		enabled: cfg.Enabled && len(kept) > 0,
		channel: channel,
	}
}

// Enabled reports whether Emit will deliver anything.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit forwards event to the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}

// CompactHooks returns a copy of hooks without nil entries, or nil when none
// remain.
func CompactHooks(hooks Hooks) Hooks {
	var out Hooks
	for _, hook := range hooks {
		if hook != nil {
			out = append(out, hook)
		}
	}
	return out
}
