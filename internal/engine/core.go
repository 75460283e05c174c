package engine

import "go.uber.org/zap"

// Core bundles the per-session engine state: clock, actor registry, lifecycle
// scheduler and the frame-ticked ancillary services. It replaces what would
// otherwise be package-level singletons so tests and the driver construct a
// fresh, isolated instance.
type Core struct {
	Clock     *Clock
	Registry  *Registry
	Scheduler *Scheduler
	Timers    *Timers
	Tweens    *Tweens
	Events    *EventBus
}

func NewCore(log *zap.Logger) *Core {
	clock := NewClock()
	registry := NewRegistry(clock, log)
	return &Core{
		Clock:     clock,
		Registry:  registry,
		Scheduler: NewScheduler(registry, clock, log),
		Timers:    NewTimers(log),
		Tweens:    NewTweens(log),
		Events:    NewEventBus(log),
	}
}

// ClearTransient resets the per-scene services. Called on scene change before
// the new scene loads.
func (c *Core) ClearTransient() {
	c.Events.Clear()
	c.Timers.Clear()
	c.Tweens.Clear()
}
