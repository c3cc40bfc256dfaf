package flags

import (
	"time"

	"github.com/spf13/pflag"
)

// Retry holds backoff policy flags.
type Retry struct {
	MaxRetries   int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	StatusCodes  []int
}

func NewRetry() *Retry {
	return &Retry{}
}

func (f *Retry) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.IntVar(&f.MaxRetries, "max-retries",
		3,
		"Number of retries after the first attempt.")
	flagSet.DurationVar(&f.InitialDelay, "initial-delay",
		300*time.Millisecond,
		"Wait before the first retry.")
	flagSet.Float64Var(&f.Multiplier, "multiplier",
		2,
		"Growth factor applied to the wait after each retry.")
	flagSet.DurationVar(&f.MaxDelay, "max-delay",
		0,
		"Upper bound for a single wait. 0 leaves growth unbounded.")
	flagSet.IntSliceVar(&f.StatusCodes, "retry-status",
		nil,
		"HTTP statuses to retry, comma separated.\n"+
			"Default: 408,500,502,503,504,522,524.")

	return flagSet
}

// Overrides adds the configuration keys of explicitly set flags to out.
func (f *Retry) Overrides(fs *pflag.FlagSet, out map[string]any) {
	if fs.Changed("max-retries") {
		out["retry.maxretries"] = f.MaxRetries
	}
	if fs.Changed("initial-delay") {
		out["retry.initialdelay"] = f.InitialDelay
	}
	if fs.Changed("multiplier") {
		out["retry.multiplier"] = f.Multiplier
	}
	if fs.Changed("max-delay") {
		out["retry.maxdelay"] = f.MaxDelay
	}
	if fs.Changed("retry-status") {
		out["retry.statuscodes"] = f.StatusCodes
	}
}
