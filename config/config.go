package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	goyaml "go.yaml.in/yaml/v3"

	"github.com/gaborage/retrier/retry"
)

// DefaultEnvPrefix is the prefix of environment variable overrides.
// RETRIER_RETRY_MAXRETRIES maps to retry.maxretries.
const DefaultEnvPrefix = "RETRIER_"

// listKeys are split on commas when they come from the environment
var listKeys = map[string]bool{
	"retry.statuscodes": true,
}

type loadOptions struct {
	file      string
	inline    []byte
	envPrefix string
	skipEnv   bool
	overrides map[string]any
}

// Option customizes Load.
type Option func(*loadOptions)

// WithFile loads a YAML file. A named file that cannot be read is an error.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// WithYAML loads inline YAML after the file.
func WithYAML(data []byte) Option {
	return func(o *loadOptions) { o.inline = data }
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) { o.envPrefix = prefix }
}

// WithoutEnv ignores environment variables.
func WithoutEnv() Option {
	return func(o *loadOptions) { o.skipEnv = true }
}

// WithOverrides applies dotted keys on top of every other source,
// typically from command-line flags.
func WithOverrides(values map[string]any) Option {
	return func(o *loadOptions) { o.overrides = values }
}

// Load loads configuration from multiple sources with priority:
// 1. Overrides (highest priority)
// 2. Environment variables
// 3. Inline YAML
// 4. YAML configuration file
// 5. Default values (lowest priority)
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, NewSourceError(o.file, err)
		}
	}

	if len(o.inline) > 0 {
		if err := k.Load(rawbytes.Provider(o.inline), yaml.Parser()); err != nil {
			return nil, NewSourceError("inline yaml", err)
		}
	}

	if !o.skipEnv {
		if err := k.Load(env.Provider(".", env.Opt{
			Prefix:        o.envPrefix,
			TransformFunc: envTransform(o.envPrefix),
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment variables: %w", err)
		}
	}

	if len(o.overrides) > 0 {
		if err := k.Load(confmap.Provider(o.overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envTransform converts PREFIX_SECTION_KEY into section.key
func envTransform(prefix string) func(key, value string) (string, any) {
	return func(key, value string) (string, any) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, prefix)), "_", ".")
		if listKeys[key] {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, value
	}
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"retry.maxretries":   retry.DefaultMaxRetries,
		"retry.initialdelay": retry.DefaultInitialDelay.String(),
		"retry.multiplier":   retry.DefaultMultiplier,
		"retry.maxdelay":     "0s",
		"retry.statuscodes":  []int{408, 500, 502, 503, 504, 522, 524},

		"client.timeout":            "30s",
		"client.logpayloads":        false,
		"client.maxpayloadlogbytes": 1024,
		"client.traceidheader":      "X-Request-ID",
		"client.w3ctrace":           true,
		"client.useragent":          "retrier",

		"log.level":  "info",
		"log.pretty": false,

		"batch.concurrency": 4,
		"batch.ratelimit":   0,
		"batch.burst":       1,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// RetryPolicy converts the retry section into a retry.Policy.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:   c.Retry.MaxRetries,
		InitialDelay: c.Retry.InitialDelay,
		Multiplier:   c.Retry.Multiplier,
		MaxDelay:     c.Retry.MaxDelay,
	}
}

// YAML renders the configuration with typed values, durations as strings.
func (c *Config) YAML() ([]byte, error) {
	out, err := goyaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
