package formstate

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-formstate/pkg/activity"
)

// Config holds the environment driven store settings.
type Config struct {
	DocumentID      string   `env:"DOCUMENT_ID"`
	ReservedFields  []string `env:"RESERVED_FIELDS" envSeparator:"," envDefault:"radioValue,emitMessage"`
	SilentKinds     []string `env:"SILENT_EDITOR_KINDS" envSeparator:","`
	ActivityEnabled bool     `env:"ACTIVITY_ENABLED" envDefault:"true"`
	ActivityChannel string   `env:"ACTIVITY_CHANNEL" envDefault:"forms"`
}

// ConfigPrefix prefixes every variable read by LoadConfig.
const ConfigPrefix = "FORMSTATE_"

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{Prefix: ConfigPrefix})
}

// LoadConfigFrom reads Config from the given variables instead of the process
// environment. Keys carry the FORMSTATE_ prefix.
func LoadConfigFrom(environment map[string]string) (Config, error) {
	return parseConfig(env.Options{Prefix: ConfigPrefix, Environment: environment})
}

func parseConfig(options env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, options); err != nil {
		return Config{}, fmt.Errorf("formstate: parse env: %w", err)
	}
	cfg.ReservedFields = trimAll(cfg.ReservedFields)
	cfg.SilentKinds = trimAll(cfg.SilentKinds)
	return cfg, nil
}

// Options converts the configuration into store options.
func (c Config) Options() []Option {
	opts := []Option{
		WithReservedFields(c.ReservedFields...),
		WithActivityConfig(activity.Config{Enabled: c.ActivityEnabled, Channel: c.ActivityChannel}),
	}
	if c.DocumentID != "" {
		opts = append(opts, WithDocumentID(c.DocumentID))
	}
	if len(c.SilentKinds) > 0 {
		opts = append(opts, WithSilentEditorKinds(c.SilentKinds...))
	}
	return opts
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
