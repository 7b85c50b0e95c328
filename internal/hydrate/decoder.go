// Package hydrate decodes plain field records into typed structs.
package hydrate

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Context identifies the record being decoded.
type Context struct {
	Key   string
	Field string
}

// PreHook may rewrite the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook may adjust or reject the decoded value.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the default mapstructure decoding.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts records into T.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	configure []func(*mapstructure.DecoderConfig)
	custom    CustomDecoder[T]
}

// WithPreHook runs hook before decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook runs hook after decoding.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithWeaklyTypedInput lets "30" decode into an int field and similar.
func WithWeaklyTypedInput[T any]() DecoderOption[T] {
	return WithDecoderConfig[T](func(cfg *mapstructure.DecoderConfig) {
		cfg.WeaklyTypedInput = true
	})
}

// WithErrorUnused fails when the record has fields T does not declare.
func WithErrorUnused[T any]() DecoderOption[T] {
	return WithDecoderConfig[T](func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	})
}

// WithDecoderConfig exposes the mapstructure configuration directly.
func WithDecoderConfig[T any](configure func(*mapstructure.DecoderConfig)) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if configure != nil {
			d.configure = append(d.configure, configure)
		}
	}
}

// WithCustomDecoder replaces the default decoding path.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

// NewDecoder builds a Decoder.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T. The payload is never modified; hooks see a
// copy. Struct fields are matched through their json tags.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: record is nil for key %q", ctx.Key)
	}

	current := make(map[string]any, len(payload))
	for key, value := range payload {
		current[key] = value
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for key %q failed: %w", ctx.Key, err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	if d.custom != nil {
		decoded, err := d.custom(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: custom decoder for key %q failed: %w", ctx.Key, err)
		}
		result = decoded
	} else {
		cfg := &mapstructure.DecoderConfig{
			Result:  &result,
			TagName: "json",
		}
		for _, configure := range d.configure {
			configure(cfg)
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return zero, fmt.Errorf("hydrate: configure decoder for key %q: %w", ctx.Key, err)
		}
		if err := decoder.Decode(current); err != nil {
			return zero, fmt.Errorf("hydrate: decode key %q: %w", ctx.Key, err)
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for key %q failed: %w", ctx.Key, err)
		}
	}

	return result, nil
}
