// Package testutil provides deterministic helpers for engine and report
// tests: a fixed-step millisecond clock and a scriptable simulation.
package testutil

import "sync"

// StepClock is a deterministic millisecond clock for tests.
//
// Every call to NowMs advances by a fixed step, so elapsed times computed
// from consecutive reads are constant across runs. This keeps rendered
// reports byte-identical for golden file comparison.
type StepClock struct {
	mu   sync.Mutex
	now  int64
	step int64
}

// NewStepClock creates a clock starting at 0 advancing by step per read.
func NewStepClock(step int64) *StepClock {
	return &StepClock{step: step}
}

// NowMs returns the current time and advances the clock.
func (c *StepClock) NowMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now += c.step
	return t
}

// Reset rewinds the clock to 0.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = 0
}
