package flags

import (
	"github.com/spf13/pflag"
)

// Batch holds multi-URL fan-out flags.
type Batch struct {
	Concurrency int
	RateLimit   float64
	Burst       int
}

func NewBatch() *Batch {
	return &Batch{}
}

func (f *Batch) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.IntVarP(&f.Concurrency, "concurrency", "c",
		4,
		"Maximum number of URLs fetched at the same time.")
	flagSet.Float64Var(&f.RateLimit, "rate",
		0,
		"Maximum URL fetches started per second. 0 disables pacing.")
	flagSet.IntVar(&f.Burst, "burst",
		1,
		"Fetches allowed to start at once when --rate is set.")

	return flagSet
}

// Overrides adds the configuration keys of explicitly set flags to out.
func (f *Batch) Overrides(fs *pflag.FlagSet, out map[string]any) {
	if fs.Changed("concurrency") {
		out["batch.concurrency"] = f.Concurrency
	}
	if fs.Changed("rate") {
		out["batch.ratelimit"] = f.RateLimit
	}
	if fs.Changed("burst") {
		out["batch.burst"] = f.Burst
	}
}
