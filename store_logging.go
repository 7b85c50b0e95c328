package formstate

import (
	"context"
	"log/slog"
	"time"
)

// StoreLogEvent describes a store operation for logging.
type StoreLogEvent struct {
	Op       string
	Key      string
	Field    string
	Modified bool
	Duration time.Duration
	Err      error
}

// StoreLogger records store events.
type StoreLogger interface {
	LogStoreEvent(StoreLogEvent)
}

// StoreLoggerFunc adapts a function to StoreLogger.
type StoreLoggerFunc func(StoreLogEvent)

// LogStoreEvent implements StoreLogger.
func (f StoreLoggerFunc) LogStoreEvent(event StoreLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopStoreLogger struct{}

func (noopStoreLogger) LogStoreEvent(StoreLogEvent) {}

// WithStoreLogger attaches a logger to the store. Passing nil restores the
// silent default.
func WithStoreLogger(logger StoreLogger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.logger = noopStoreLogger{}
			return
		}
		cfg.logger = logger
	}
}

// SlogLogger forwards store events to a structured logger. Failed operations
// are logged at warn level, everything else at debug.
func SlogLogger(logger *slog.Logger) StoreLogger {
	if logger == nil {
		return noopStoreLogger{}
	}
	return StoreLoggerFunc(func(event StoreLogEvent) {
		level := slog.LevelDebug
		attrs := []slog.Attr{
			slog.String("op", event.Op),
			slog.Bool("modified", event.Modified),
			slog.Duration("duration", event.Duration),
		}
		if event.Key != "" {
			attrs = append(attrs, slog.String("key", event.Key))
		}
		if event.Field != "" {
			attrs = append(attrs, slog.String("field", event.Field))
		}
		if event.Err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("error", event.Err.Error()))
		}
		logger.LogAttrs(context.Background(), level, "formstate", attrs...)
	})
}
