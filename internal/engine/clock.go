package engine

import "time"

// Delta time is clamped so a debugger pause or window drag does not produce
// one giant simulation step.
const (
	minDelta = 0.0001
	maxDelta = 0.25
)

// Clock produces the per-frame delta time and the monotonically increasing
// frame counter the scheduler uses for creation-frame suppression.
type Clock struct {
	last          time.Time
	delta         float64
	timeScale     float64
	total         float64
	unscaledTotal float64
	frame         uint64

	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{
		delta:     1.0 / 60.0,
		timeScale: 1.0,
		now:       time.Now,
	}
}

// Tick advances the clock at the start of a frame.
func (c *Clock) Tick() {
	if c.last.IsZero() {
		c.last = c.now()
	}
	current := c.now()
	elapsed := current.Sub(c.last).Seconds()
	c.last = current

	c.delta = min(max(elapsed, minDelta), maxDelta)
	c.unscaledTotal += c.delta
	c.total += c.delta * c.timeScale
	c.frame++
}

// Delta returns the scaled delta time for the current frame, in seconds.
func (c *Clock) Delta() float64 { return c.delta * c.timeScale }

// UnscaledDelta returns the clamped wall-clock delta for the current frame.
func (c *Clock) UnscaledDelta() float64 { return c.delta }

// Frame returns the current frame number. Frame 0 is "before the first tick".
func (c *Clock) Frame() uint64 { return c.frame }

// Total returns accumulated scaled time in seconds.
func (c *Clock) Total() float64 { return c.total }

// UnscaledTotal returns accumulated unscaled time in seconds.
func (c *Clock) UnscaledTotal() float64 { return c.unscaledTotal }

// TimeScale returns the current time multiplier.
func (c *Clock) TimeScale() float64 { return c.timeScale }

// SetTimeScale sets the time multiplier applied to Delta and Total.
func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}
