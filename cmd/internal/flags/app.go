package flags

import (
	"github.com/spf13/pflag"
)

// App holds flags shared by every command.
type App struct {
	ConfigFile string
	LogLevel   string
	LogPretty  bool
	Verbose    bool
}

func NewApp() *App {
	return &App{}
}

func (f *App) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.StringVar(&f.ConfigFile, "config",
		"",
		"Path to YAML configuration file.")
	flagSet.StringVar(&f.LogLevel, "log-level",
		"info",
		"Log level: trace, debug, info, warn, error.")
	flagSet.BoolVar(&f.LogPretty, "log-pretty",
		false,
		"Write human-readable logs instead of JSON.")
	flagSet.BoolVarP(&f.Verbose, "verbose", "v",
		false,
		"Shortcut for --log-level=debug.")

	return flagSet
}

// Overrides adds the configuration keys of explicitly set flags to out.
func (f *App) Overrides(fs *pflag.FlagSet, out map[string]any) {
	if fs.Changed("log-level") {
		out["log.level"] = f.LogLevel
	}
	if fs.Changed("log-pretty") {
		out["log.pretty"] = f.LogPretty
	}
	if fs.Changed("verbose") && f.Verbose {
		out["log.level"] = "debug"
	}
}
