package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/activity"
)

// WithActivityHooks attaches hooks notified about field writes, removals and
// modified-flag edges. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	kept := activity.CompactHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.hooks = kept
	}
}

// WithActivityConfig controls whether configured hooks are notified and the
// channel stamped on events.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *storeConfig) {
		cfg.activity = config
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (s *Store) ActivityHooks() activity.Hooks {
	return activity.CompactHooks(s.cfg.hooks)
}

func (s *Store) eventInput(key, field, group string, value Record) activity.FormEventInput {
	return activity.FormEventInput{
		DocumentID: s.cfg.documentID,
		Key:        key,
		Field:      field,
		Group:      group,
		Value:      value,
		OccurredAt: s.now(),
	}
}

// emit delivers event to the hooks. Hook failures are logged, never returned:
// observers cannot make a store operation fail.
func (s *Store) emit(event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if err := s.emitter.Emit(context.Background(), event); err != nil {
		s.logger().LogStoreEvent(StoreLogEvent{Op: "activity", Key: keyOf(event), Err: err})
	}
}

func keyOf(event activity.Event) string {
	if key, ok := event.Metadata["key"].(string); ok {
		return key
	}
	return ""
}
