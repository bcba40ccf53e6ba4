// pkg/clock/clock.go
package clock

import "time"

// DefaultMaxDelta bounds a single frame so a stalled refresh does not
// carry the projectile across the field in one step.
const DefaultMaxDelta = 0.25

// FrameClock converts successive frame timestamps into elapsed seconds.
// It is owned by the driver loop and is not safe for concurrent use.
type FrameClock struct {
	// MaxDelta caps every sample in seconds; 0 disables the cap
	MaxDelta float64

	last    time.Time
	started bool
}

// New creates a frame clock with the given upper bound in seconds.
func New(maxDelta float64) *FrameClock {
	if maxDelta < 0 {
		maxDelta = 0
	}
	return &FrameClock{MaxDelta: maxDelta}
}

// Sample records now and returns the seconds elapsed since the previous
// sample. The first sample after construction or Reset returns 0, as does
// a timestamp that moved backwards.
func (c *FrameClock) Sample(now time.Time) float64 {
	if !c.started {
		c.last = now
		c.started = true
		return 0
	}

	delta := now.Sub(c.last).Seconds()
	c.last = now

	if delta < 0 {
		return 0
	}
	if c.MaxDelta > 0 && delta > c.MaxDelta {
		delta = c.MaxDelta
	}
	return delta
}

// Reset forgets the previous timestamp.
func (c *FrameClock) Reset() {
	c.started = false
	c.last = time.Time{}
}
