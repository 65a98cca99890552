package engine

import "time"

// TimeProvider supplies wall-clock readings to the loop
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the monotonic system clock
type SystemTime struct{}

// Now returns the current time with monotonic clock reading
func (SystemTime) Now() time.Time {
	return time.Now()
}

// fpsSmoothing is the weight of the newest frame in the fps average
const fpsSmoothing = 0.1

// FrameClock measures real time elapsed between frames
type FrameClock struct {
	src     TimeProvider
	last    time.Time
	started bool
	fps     float64
}

// NewFrameClock creates a clock over src; nil uses the system clock
func NewFrameClock(src TimeProvider) *FrameClock {
	if src == nil {
		src = SystemTime{}
	}
	return &FrameClock{src: src}
}

// Tick returns the time since the previous Tick; the first call returns 0
func (c *FrameClock) Tick() time.Duration {
	now := c.src.Now()
	if !c.started {
		c.last, c.started = now, true
		return 0
	}
	elapsed := now.Sub(c.last)
	c.last = now
	if elapsed < 0 {
		return 0
	}

	if elapsed > 0 {
		inst := float64(time.Second) / float64(elapsed)
		if c.fps == 0 {
			c.fps = inst
		} else {
			c.fps += (inst - c.fps) * fpsSmoothing
		}
	}
	return elapsed
}

// FPS returns the smoothed frame rate
func (c *FrameClock) FPS() float64 {
	return c.fps
}
