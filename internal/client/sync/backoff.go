package sync

import "time"

// Backoff holds the adaptive delay of the drain loop.
// It is not safe for concurrent use; Engine guards it with its own mutex.
type Backoff struct {
	cfg      Config
	current  time.Duration
	failures int
}

// NewBackoff creates a backoff starting at cfg.BaseDelay.
func NewBackoff(cfg Config) *Backoff {
	cfg = cfg.withDefaults()
	return &Backoff{cfg: cfg, current: cfg.BaseDelay}
}

// Reset returns to the base delay and clears the failure counter.
func (b *Backoff) Reset() {
	b.current = b.cfg.BaseDelay
	b.failures = 0
}

// Observe adapts the delay to the outcome of one drain batch and returns
// the delay to sleep before the next one.
//
//	all succeeded  -> delay / 2, floored at MinDelay
//	none succeeded -> delay * FailureMultiplier, capped at MaxDelay
//	partial        -> delay * PartialMultiplier, capped at MaxDelay
func (b *Backoff) Observe(attempted, succeeded int) time.Duration {
	switch {
	case attempted <= 0:
		// nothing was tried, keep the current delay
	case succeeded >= attempted:
		b.current = max(b.current/2, b.cfg.MinDelay)
		b.failures = 0
	case succeeded <= 0:
		b.current = b.scale(b.cfg.FailureMultiplier)
		b.failures++
	default:
		b.current = b.scale(b.cfg.PartialMultiplier)
		b.failures = 0
	}
	return b.current
}

// Delay returns the current delay.
func (b *Backoff) Delay() time.Duration {
	return b.current
}

// Failures returns the number of consecutive batches with no success.
func (b *Backoff) Failures() int {
	return b.failures
}

func (b *Backoff) scale(factor float64) time.Duration {
	next := time.Duration(float64(b.current) * factor)
	return min(next, b.cfg.MaxDelay)
}
