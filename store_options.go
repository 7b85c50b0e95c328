package formstate

import (
	"sort"
	"time"

	"github.com/goliatone/go-formstate/pkg/activity"
)

// DefaultReservedFields are record fields that only carry routing hints for
// the form bridge and never count as user content.
var DefaultReservedFields = []string{FieldRadioValue, FieldEmitMessage}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	bridge      FormBridge
	reserved    map[string]struct{}
	silentKinds map[string]struct{}
	logger      StoreLogger
	hasher      HasherFactory
	now         func() time.Time
	documentID  string
	hooks       activity.Hooks
	activity    activity.Config
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{
		reserved: stringSet(DefaultReservedFields),
		activity: activity.Config{Enabled: true},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithReservedFields replaces the set of bridge-signaling record fields that
// are ignored when deciding whether a merge modified an entry.
func WithReservedFields(names ...string) Option {
	return func(cfg *storeConfig) {
		cfg.reserved = stringSet(names)
	}
}

// WithClock overrides the time source used for log durations and activity
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(cfg *storeConfig) {
		cfg.now = now
	}
}

// WithDocumentID tags activity events with the owning document.
func WithDocumentID(id string) Option {
	return func(cfg *storeConfig) {
		cfg.documentID = id
	}
}

// SetOption configures a single SetValue call.
type SetOption func(*setConfig)

type setConfig struct {
	group     string
	isDefault bool
}

// WithGroup marks the write as belonging to a mutually exclusive field group.
func WithGroup(token string) SetOption {
	return func(cfg *setConfig) {
		cfg.group = token
	}
}

// AsDefault marks the write as a default-origin write: inserting it never
// flags the document as modified.
func AsDefault() SetOption {
	return func(cfg *setConfig) {
		cfg.isDefault = true
	}
}

// GetOption configures a single GetValue call.
type GetOption func(*getConfig)

type getConfig struct {
	group string
}

// WithGroupToken disambiguates a grouped field, e.g. the export value of one
// radio button.
func WithGroupToken(token string) GetOption {
	return func(cfg *getConfig) {
		cfg.group = token
	}
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		out[value] = struct{}{}
	}
	return out
}

func sortedKeys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for key := range rec {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
