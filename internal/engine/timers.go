package engine

import "go.uber.org/zap"

// TimerFunc is a scheduled callback. Errors are logged, never fatal.
type TimerFunc func() error

type scheduledTask struct {
	id          int
	delay       float64
	interval    float64
	repeatCount int // -1 = infinite
	callback    TimerFunc
	cancelled   bool
}

// Timers runs delayed and repeating callbacks on the frame tick, before the
// scheduler's update pass. Cancellation is mark-and-skip: an in-flight
// callback is never interrupted. Tasks scheduled from inside a firing
// callback land in a pending list and join the main list after the pass, so
// the tick that created them never advances them.
type Timers struct {
	log     *zap.Logger
	tasks   []scheduledTask
	pending []scheduledTask
	ticking bool
	nextID  int
}

func NewTimers(log *zap.Logger) *Timers {
	return &Timers{log: log, nextID: 1}
}

// After schedules callback to run once after delay seconds. Returns the task
// id usable with Cancel.
func (t *Timers) After(delay float64, callback TimerFunc) int {
	if callback == nil {
		t.log.Warn("Timer.After: callback is nil")
		return 0
	}
	id := t.nextID
	t.nextID++
	t.add(scheduledTask{
		id:       id,
		delay:    delay,
		callback: callback,
	})
	return id
}

// Every schedules callback to run after delay seconds and then repeatedly
// every interval seconds until cancelled.
func (t *Timers) Every(delay, interval float64, callback TimerFunc) int {
	if callback == nil {
		t.log.Warn("Timer.Every: callback is nil")
		return 0
	}
	id := t.nextID
	t.nextID++
	t.add(scheduledTask{
		id:          id,
		delay:       delay,
		interval:    interval,
		repeatCount: -1,
		callback:    callback,
	})
	return id
}

func (t *Timers) add(task scheduledTask) {
	if t.ticking {
		t.pending = append(t.pending, task)
		return
	}
	t.tasks = append(t.tasks, task)
}

// Cancel marks a task so it is skipped and removed on the next tick.
func (t *Timers) Cancel(id int) {
	for i := range t.tasks {
		if t.tasks[i].id == id {
			t.tasks[i].cancelled = true
			return
		}
	}
	for i := range t.pending {
		if t.pending[i].id == id {
			t.pending[i].cancelled = true
			return
		}
	}
}

// CancelAll marks every task cancelled.
func (t *Timers) CancelAll() {
	for i := range t.tasks {
		t.tasks[i].cancelled = true
	}
	for i := range t.pending {
		t.pending[i].cancelled = true
	}
}

// Clear drops all tasks immediately. Used on scene change.
func (t *Timers) Clear() {
	t.tasks = t.tasks[:0]
	t.pending = t.pending[:0]
}

// Tick advances all tasks by dt and fires the due ones. Callbacks may
// schedule new tasks; those are merged in afterwards untouched.
func (t *Timers) Tick(dt float64) {
	t.ticking = true
	remaining := t.tasks[:0]
	for i := range t.tasks {
		task := t.tasks[i]
		if task.cancelled {
			continue
		}

		task.delay -= dt
		if task.delay > 0 {
			remaining = append(remaining, task)
			continue
		}

		if err := task.callback(); err != nil {
			t.log.Error("timer callback error", zap.Error(err))
		}

		if task.interval > 0 && task.repeatCount != 0 {
			task.delay = task.interval
			if task.repeatCount > 0 {
				task.repeatCount--
			}
			remaining = append(remaining, task)
		}
	}
	t.ticking = false
	t.tasks = append(remaining, t.pending...)
	t.pending = t.pending[:0]
}
