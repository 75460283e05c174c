package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedClock returns a Clock whose time source advances by step per call.
func fixedClock(step time.Duration) *Clock {
	c := NewClock()
	current := time.Unix(1000, 0)
	c.now = func() time.Time {
		current = current.Add(step)
		return current
	}
	return c
}

func TestClockDeltaClampedHigh(t *testing.T) {
	c := fixedClock(2 * time.Second)
	c.Tick()
	c.Tick()
	assert.Equal(t, 0.25, c.Delta())
}

func TestClockDeltaClampedLow(t *testing.T) {
	c := fixedClock(time.Nanosecond)
	c.Tick()
	c.Tick()
	assert.Equal(t, 0.0001, c.Delta())
}

func TestClockFrameCounterMonotonic(t *testing.T) {
	c := fixedClock(16 * time.Millisecond)
	assert.Equal(t, uint64(0), c.Frame())
	for i := 1; i <= 10; i++ {
		c.Tick()
		assert.Equal(t, uint64(i), c.Frame())
	}
}

func TestClockTimeScale(t *testing.T) {
	c := fixedClock(100 * time.Millisecond)
	c.SetTimeScale(0.5)
	c.Tick()
	c.Tick()

	assert.InDelta(t, 0.05, c.Delta(), 1e-9)
	assert.InDelta(t, 0.1, c.UnscaledDelta(), 1e-9)
	assert.Greater(t, c.UnscaledTotal(), c.Total())

	c.SetTimeScale(-3)
	assert.Equal(t, 0.0, c.TimeScale(), "negative scale clamps to zero")
}
