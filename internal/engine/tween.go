package engine

import (
	"math"

	"go.uber.org/zap"
)

// EaseType selects the interpolation curve for a tween.
type EaseType int

const (
	EaseLinear EaseType = iota
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInSine
	EaseOutSine
	EaseInOutSine
)

// ParseEaseType maps an ease name to its curve. Unknown names fall back to
// linear.
func ParseEaseType(name string) EaseType {
	switch name {
	case "EaseInQuad":
		return EaseInQuad
	case "EaseOutQuad":
		return EaseOutQuad
	case "EaseInOutQuad":
		return EaseInOutQuad
	case "EaseInCubic":
		return EaseInCubic
	case "EaseOutCubic":
		return EaseOutCubic
	case "EaseInOutCubic":
		return EaseInOutCubic
	case "EaseInSine":
		return EaseInSine
	case "EaseOutSine":
		return EaseOutSine
	case "EaseInOutSine":
		return EaseInOutSine
	default:
		return EaseLinear
	}
}

func applyEasing(t float64, ease EaseType) float64 {
	switch ease {
	case EaseInQuad:
		return t * t
	case EaseOutQuad:
		return t * (2 - t)
	case EaseInOutQuad:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	case EaseInCubic:
		return t * t * t
	case EaseOutCubic:
		f := t - 1
		return f*f*f + 1
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		return (t-1)*(2*t-2)*(2*t-2) + 1
	case EaseInSine:
		return 1 - math.Cos(t*math.Pi/2)
	case EaseOutSine:
		return math.Sin(t * math.Pi / 2)
	case EaseInOutSine:
		return -(math.Cos(math.Pi*t) - 1) / 2
	default:
		return t
	}
}

type tweenInstance struct {
	id         int
	startValue float64
	endValue   float64
	duration   float64
	elapsed    float64
	ease       EaseType
	onUpdate   func(value float64) error
	onComplete func() error
	cancelled  bool
}

// Tweens interpolates scalar values over time, driving an update callback
// each frame and a completion callback when done. Cancellation is
// mark-and-skip, like Timers; tweens started from inside a firing callback
// join the main list after the pass, untouched by the tick that started them.
type Tweens struct {
	log     *zap.Logger
	tweens  []tweenInstance
	pending []tweenInstance
	ticking bool
	nextID  int
}

func NewTweens(log *zap.Logger) *Tweens {
	return &Tweens{log: log, nextID: 1}
}

// To starts a tween from one value to another over duration seconds.
// onComplete may be nil.
func (tw *Tweens) To(from, to, duration float64, ease EaseType,
	onUpdate func(value float64) error, onComplete func() error) int {

	if duration <= 0 {
		duration = math.SmallestNonzeroFloat64
	}
	id := tw.nextID
	tw.nextID++
	instance := tweenInstance{
		id:         id,
		startValue: from,
		endValue:   to,
		duration:   duration,
		ease:       ease,
		onUpdate:   onUpdate,
		onComplete: onComplete,
	}
	if tw.ticking {
		tw.pending = append(tw.pending, instance)
	} else {
		tw.tweens = append(tw.tweens, instance)
	}
	return id
}

// Cancel marks a tween so it is skipped and removed on the next tick.
func (tw *Tweens) Cancel(id int) {
	for i := range tw.tweens {
		if tw.tweens[i].id == id {
			tw.tweens[i].cancelled = true
			return
		}
	}
	for i := range tw.pending {
		if tw.pending[i].id == id {
			tw.pending[i].cancelled = true
			return
		}
	}
}

// CancelAll marks every tween cancelled.
func (tw *Tweens) CancelAll() {
	for i := range tw.tweens {
		tw.tweens[i].cancelled = true
	}
	for i := range tw.pending {
		tw.pending[i].cancelled = true
	}
}

// Clear drops all tweens immediately. Used on scene change.
func (tw *Tweens) Clear() {
	tw.tweens = tw.tweens[:0]
	tw.pending = tw.pending[:0]
}

// Tick advances all tweens by dt. Callbacks may start new tweens; those are
// merged in afterwards untouched.
func (tw *Tweens) Tick(dt float64) {
	tw.ticking = true
	remaining := tw.tweens[:0]
	for i := range tw.tweens {
		tween := tw.tweens[i]
		if tween.cancelled {
			continue
		}

		tween.elapsed += dt
		t := math.Min(tween.elapsed/tween.duration, 1.0)
		value := tween.startValue + (tween.endValue-tween.startValue)*applyEasing(t, tween.ease)

		if tween.onUpdate != nil {
			if err := tween.onUpdate(value); err != nil {
				tw.log.Error("tween update error", zap.Error(err))
			}
		}

		if t < 1.0 {
			remaining = append(remaining, tween)
			continue
		}
		if tween.onComplete != nil {
			if err := tween.onComplete(); err != nil {
				tw.log.Error("tween complete error", zap.Error(err))
			}
		}
	}
	tw.ticking = false
	tw.tweens = append(remaining, tw.pending...)
	tw.pending = tw.pending[:0]
}
