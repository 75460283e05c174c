package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTimerAfterFiresOnce(t *testing.T) {
	timers := NewTimers(zap.NewNop())

	fired := 0
	timers.After(0.1, func() error {
		fired++
		return nil
	})

	timers.Tick(0.05)
	assert.Equal(t, 0, fired)
	timers.Tick(0.06)
	assert.Equal(t, 1, fired)
	timers.Tick(1.0)
	assert.Equal(t, 1, fired)
}

func TestTimerEveryRepeatsUntilCancelled(t *testing.T) {
	timers := NewTimers(zap.NewNop())

	fired := 0
	id := timers.Every(0.1, 0.1, func() error {
		fired++
		return nil
	})

	for i := 0; i < 5; i++ {
		timers.Tick(0.1)
	}
	assert.Equal(t, 5, fired)

	timers.Cancel(id)
	timers.Tick(0.1)
	assert.Equal(t, 5, fired, "cancelled timer must not fire")
}

func TestTimerAfterFromCallbackFires(t *testing.T) {
	timers := NewTimers(zap.NewNop())

	var chained bool
	timers.After(0.1, func() error {
		timers.After(0.1, func() error {
			chained = true
			return nil
		})
		return nil
	})

	timers.Tick(0.1)
	assert.False(t, chained, "chained timer must not advance in the tick that scheduled it")
	timers.Tick(0.1)
	assert.True(t, chained, "timer scheduled from a timer callback must survive the tick")
}

func TestTimerEveryFromCallbackRepeats(t *testing.T) {
	timers := NewTimers(zap.NewNop())

	fired := 0
	timers.After(0.1, func() error {
		timers.Every(0.1, 0.1, func() error {
			fired++
			return nil
		})
		return nil
	})

	for i := 0; i < 4; i++ {
		timers.Tick(0.1)
	}
	assert.Equal(t, 3, fired)
}

func TestTimerCancelFromCallbackStopsChainedTimer(t *testing.T) {
	timers := NewTimers(zap.NewNop())

	var chained bool
	timers.After(0.1, func() error {
		id := timers.After(0.1, func() error {
			chained = true
			return nil
		})
		timers.Cancel(id)
		return nil
	})

	timers.Tick(0.1)
	timers.Tick(0.1)
	assert.False(t, chained, "a timer cancelled before it left the pending list must not fire")
}

func TestTimerErrorDoesNotStopOthers(t *testing.T) {
	timers := NewTimers(zap.NewNop())

	var second bool
	timers.After(0.1, func() error { return fmt.Errorf("bad") })
	timers.After(0.1, func() error {
		second = true
		return nil
	})

	timers.Tick(0.2)
	assert.True(t, second)
}

func TestTweenReachesEndValue(t *testing.T) {
	tweens := NewTweens(zap.NewNop())

	var last float64
	var completed bool
	tweens.To(0, 10, 1.0, EaseLinear, func(v float64) error {
		last = v
		return nil
	}, func() error {
		completed = true
		return nil
	})

	tweens.Tick(0.5)
	assert.InDelta(t, 5.0, last, 1e-9)
	assert.False(t, completed)

	tweens.Tick(0.6) // overshoot clamps to end value
	assert.InDelta(t, 10.0, last, 1e-9)
	assert.True(t, completed)
}

func TestTweenFromOnCompleteRuns(t *testing.T) {
	tweens := NewTweens(zap.NewNop())

	var second float64
	tweens.To(0, 1, 0.1, EaseLinear, func(float64) error { return nil },
		func() error {
			tweens.To(0, 5, 0.1, EaseLinear, func(v float64) error {
				second = v
				return nil
			}, nil)
			return nil
		})

	tweens.Tick(0.1)
	assert.Equal(t, 0.0, second, "chained tween must not advance in the tick that started it")
	tweens.Tick(0.1)
	assert.InDelta(t, 5.0, second, 1e-9, "tween started from onComplete must run to completion")
}

func TestTweenCancelSkipsCompletion(t *testing.T) {
	tweens := NewTweens(zap.NewNop())

	var completed bool
	id := tweens.To(0, 1, 0.2, EaseInOutSine, func(float64) error { return nil },
		func() error {
			completed = true
			return nil
		})

	tweens.Cancel(id)
	tweens.Tick(1.0)
	assert.False(t, completed)
}

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var got any
	bus.Subscribe("score", func(data any) error {
		got = data
		return nil
	})
	bus.Publish("score", 42)
	assert.Equal(t, 42, got)
}

func TestEventBusOnce(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	count := 0
	bus.SubscribeOnce("ping", func(any) error {
		count++
		return nil
	})
	bus.Publish("ping", nil)
	bus.Publish("ping", nil)
	assert.Equal(t, 1, count)
}

func TestEventBusUnsubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var order []string
	var firstID int
	firstID = bus.Subscribe("evt", func(any) error {
		order = append(order, "first")
		bus.Unsubscribe(firstID)
		return nil
	})
	bus.Subscribe("evt", func(any) error {
		order = append(order, "second")
		return nil
	})

	bus.Publish("evt", nil)
	assert.Equal(t, []string{"first", "second"}, order,
		"snapshot iteration: mutation mid-publish must not skip subscribers")

	order = nil
	bus.Publish("evt", nil)
	assert.Equal(t, []string{"second"}, order)
}

func TestParseEaseTypeFallsBackToLinear(t *testing.T) {
	assert.Equal(t, EaseLinear, ParseEaseType("NotACurve"))
	assert.Equal(t, EaseOutCubic, ParseEaseType("EaseOutCubic"))
}
