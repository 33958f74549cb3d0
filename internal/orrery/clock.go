package orrery

import "time"

// DefaultFrameInterval is the nominal frame delta in seconds.
const DefaultFrameInterval = 1.0 / 60

// DefaultMaxStep caps a measured frame delta, in seconds.
const DefaultMaxStep = 0.25

// Clock yields the real time elapsed since the previous frame, in seconds.
type Clock interface {
	Tick() float64
}

// FixedClock reports the same delta every frame.
type FixedClock struct {
	Step float64
}

func (c FixedClock) Tick() float64 { return c.Step }

// WallClock measures real elapsed time between ticks. The first tick
// reports zero. Deltas above Max are clamped so that a suspended process
// or a dragged window does not jump the planets forward.
type WallClock struct {
	Max  float64
	now  func() time.Time
	last time.Time
}

func NewWallClock(max float64) *WallClock {
	if max <= 0 {
		max = DefaultMaxStep
	}
	return &WallClock{Max: max, now: time.Now}
}

func (c *WallClock) Tick() float64 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		return 0
	}
	if dt > c.Max {
		return c.Max
	}
	return dt
}

// Restart forgets the previous tick, so the next one reports zero.
func (c *WallClock) Restart() {
	c.last = time.Time{}
}
