package retry

import (
	"math"
	"time"
)

// Backoff holds the mutable state of one retry sequence: the number of
// retries left and the delay to use for the next one. It is not safe for
// concurrent use; every sequence gets its own.
type Backoff struct {
	remaining  int
	next       time.Duration
	multiplier float64
	maxDelay   time.Duration
}

// Next consumes one retry and returns the delay to wait before it.
// It returns false once no retries remain.
func (b *Backoff) Next() (time.Duration, bool) {
	if b.remaining <= 0 {
		return 0, false
	}
	b.remaining--

	d := b.next
	b.next = grow(b.next, b.multiplier, b.maxDelay)
	return d, true
}

// Remaining returns the retries left in the sequence. Never negative.
func (b *Backoff) Remaining() int {
	return b.remaining
}

// Current returns the delay the next retry would wait.
func (b *Backoff) Current() time.Duration {
	return b.next
}

// grow multiplies d, saturating at math.MaxInt64 so the schedule never wraps
// around and never decreases.
func grow(d time.Duration, multiplier float64, maxDelay time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}

	scaled := float64(d) * multiplier
	var next time.Duration
	if scaled >= math.MaxInt64 {
		next = time.Duration(math.MaxInt64)
	} else {
		next = time.Duration(scaled)
	}
	if next < d {
		next = d
	}
	return capDelay(next, maxDelay)
}

func capDelay(d, maxDelay time.Duration) time.Duration {
	if maxDelay > 0 && d > maxDelay {
		return maxDelay
	}
	return d
}
