package epicycle

import (
	"time"
)

// Clock produces the cycle time fraction for the frame loop.
// One cycle lasts /seconds/ at /fps/ frames per second.
type Clock struct {
	T      float64 // current fraction of the cycle
	Step   float64 // how far T moves per frame
	FPS    float64
	Render bool // no frame pacing, run as fast as possible
}

// NewClock builds a clock that starts at t = 0
func NewClock(fps, seconds float64, render bool) *Clock {
	step := 0.0
	if fps > 0 && seconds > 0 {
		step = 1 / (fps * seconds)
	}
	return &Clock{
		Step:   step,
		FPS:    fps,
		Render: render,
	}
}

// Tick moves the clock one frame forward and returns the new time.
// Once T reaches 1 the next tick starts a new cycle at 0.
func (c *Clock) Tick() float64 {
	if c.T >= 1 {
		c.T = 0
	} else {
		c.T += c.Step
	}
	return c.T
}

// Interval is the wall time between frames, 0 in render mode
func (c *Clock) Interval() time.Duration {
	if c.Render || c.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.FPS)
}

// Reset puts the clock back to the start of a cycle
func (c *Clock) Reset() {
	c.T = 0
}
