package crdt

import (
	"sync"
	"time"
)

// Clock выдает текущее время в unix-секундах для штампов значений.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current unix time in seconds.
func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// ManualClock представляет часы, управляемые вручную.
// Используется в тестах для детерминированных timestamp.
type ManualClock struct {
	now int64
	mu  sync.Mutex
}

// NewManualClock creates a clock frozen at the given unix time.
func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

// Now returns the frozen time.
func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Set moves the clock to an absolute unix time.
func (c *ManualClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

// Advance moves the clock forward by d (rounded down to whole seconds)
// and returns the new time.
func (c *ManualClock) Advance(d time.Duration) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += int64(d / time.Second)
	return c.now
}
