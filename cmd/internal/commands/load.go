package commands

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/gaborage/retrier/config"
	"github.com/gaborage/retrier/logger"
)

// overrider is implemented by every flag group
type overrider interface {
	Overrides(fs *pflag.FlagSet, out map[string]any)
}

// loadConfig merges defaults, the config file, the environment and the
// explicitly set flags, in increasing priority.
func loadConfig(configFile string, fs *pflag.FlagSet, groups ...overrider) (*config.Config, error) {
	overrides := map[string]any{}
	for _, g := range groups {
		g.Overrides(fs, overrides)
	}

	opts := []config.Option{config.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, config.WithFile(configFile))
	}
	return config.Load(opts...)
}

// newLogger writes logs to w so command output stays clean on stdout
func newLogger(w io.Writer, cfg *config.Config) logger.Logger {
	return logger.NewWithWriter(w, cfg.Log.Level, cfg.Log.Pretty)
}
