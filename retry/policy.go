package retry

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxRetries is the number of retries allowed after the first attempt
	DefaultMaxRetries = 3

	// DefaultInitialDelay is the backoff before the first retry
	DefaultInitialDelay = 300 * time.Millisecond

	// DefaultMultiplier doubles the backoff after every retry
	DefaultMultiplier = 2.0
)

// ErrInvalidPolicy is returned when a Policy cannot drive a retry sequence
var ErrInvalidPolicy = errors.New("invalid retry policy")

// Policy describes how a retry sequence behaves.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt. Zero disables retries.
	MaxRetries int
	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration
	// Multiplier scales the delay after every retry. Zero means DefaultMultiplier.
	Multiplier float64
	// MaxDelay caps a single delay. Zero leaves growth unbounded.
	MaxDelay time.Duration
}

// DefaultPolicy returns the policy used when callers do not configure one.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		Multiplier:   DefaultMultiplier,
	}
}

// Validate reports whether the policy can drive a retry sequence.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative (got %d)", ErrInvalidPolicy, p.MaxRetries)
	}
	if p.InitialDelay < 0 {
		return fmt.Errorf("%w: initial delay must not be negative (got %v)", ErrInvalidPolicy, p.InitialDelay)
	}
	if p.Multiplier != 0 && !(p.Multiplier >= 1) {
		return fmt.Errorf("%w: multiplier must be >= 1 (got %v)", ErrInvalidPolicy, p.Multiplier)
	}
	if p.MaxDelay < 0 {
		return fmt.Errorf("%w: max delay must not be negative (got %v)", ErrInvalidPolicy, p.MaxDelay)
	}
	return nil
}

// NewBackoff starts a fresh sequence state for the policy.
func (p Policy) NewBackoff() *Backoff {
	multiplier := p.Multiplier
	if multiplier == 0 {
		multiplier = DefaultMultiplier
	}

	return &Backoff{
		remaining:  max(p.MaxRetries, 0),
		next:       capDelay(max(p.InitialDelay, 0), p.MaxDelay),
		multiplier: multiplier,
		maxDelay:   p.MaxDelay,
	}
}

// DelayFor returns the wait before retry n (1-based). It returns zero for n < 1.
func (p Policy) DelayFor(n int) time.Duration {
	if n < 1 {
		return 0
	}
	b := p.NewBackoff()
	d := b.next
	for range n - 1 {
		d = grow(d, b.multiplier, b.maxDelay)
	}
	return d
}
