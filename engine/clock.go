package engine

import "time"

// StepClock measures elapsed time between successive polls using the
// monotonic clock
type StepClock struct {
	last time.Time
}

// NewStepClock creates a clock anchored at the current time
func NewStepClock() *StepClock {
	return &StepClock{last: time.Now()}
}

// Restart returns the time elapsed since the previous call (or since
// creation) and resets the reference point
func (c *StepClock) Restart() time.Duration {
	now := time.Now()
	elapsed := now.Sub(c.last)
	c.last = now
	return elapsed
}
