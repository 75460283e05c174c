package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// fakeScripted is a Scripted component backed by Go callbacks instead of Lua.
type fakeScripted struct {
	key      string
	typeName string

	enabled bool
	started bool

	frameAdded  uint64
	newAddition bool

	slots map[string]func(args ...lua.LValue) error
	calls []string
}

func newFake(key string, slots ...string) *fakeScripted {
	f := &fakeScripted{
		key:      key,
		typeName: "Fake",
		enabled:  true,
		slots:    make(map[string]func(args ...lua.LValue) error),
	}
	for _, slot := range slots {
		f.slots[slot] = nil
	}
	return f
}

func (f *fakeScripted) Key() string              { return f.key }
func (f *fakeScripted) TypeName() string         { return f.typeName }
func (f *fakeScripted) Enabled() bool            { return f.enabled }
func (f *fakeScripted) SetEnabled(e bool)        { f.enabled = e }
func (f *fakeScripted) Started() bool            { return f.started }
func (f *fakeScripted) MarkStarted()             { f.started = true }
func (f *fakeScripted) CreatedAt() (uint64, bool) {
	return f.frameAdded, f.newAddition
}
func (f *fakeScripted) StampCreation(frame uint64) {
	f.frameAdded = frame
	f.newAddition = true
}
func (f *fakeScripted) HasSlot(slot string) bool {
	_, ok := f.slots[slot]
	return ok
}
func (f *fakeScripted) Call(slot string, args ...lua.LValue) error {
	f.calls = append(f.calls, slot)
	if fn := f.slots[slot]; fn != nil {
		return fn(args...)
	}
	return nil
}

func newTestCore(t *testing.T) *Core {
	t.Helper()
	return NewCore(zap.NewNop())
}

// manualClock lets tests advance frames without real time passing.
func advanceFrame(c *Core) {
	c.Clock.Tick()
}

func TestDispatchPhaseOrdering(t *testing.T) {
	core := newTestCore(t)

	var order []string
	comp := newFake("c_0", SlotStart, SlotUpdate, SlotLateUpdate)
	comp.slots[SlotStart] = func(...lua.LValue) error {
		order = append(order, "start")
		return nil
	}
	comp.slots[SlotUpdate] = func(...lua.LValue) error {
		order = append(order, "update")
		return nil
	}
	comp.slots[SlotLateUpdate] = func(...lua.LValue) error {
		order = append(order, "late")
		return nil
	}

	a := core.Registry.New("actor")
	require.NoError(t, core.Registry.Attach(a, comp, false))

	core.Scheduler.DispatchStart()
	core.Scheduler.DispatchUpdate()
	core.Scheduler.DispatchLateUpdate()

	assert.Equal(t, []string{"start", "update", "late"}, order)
}

func TestCreationFrameSuppression(t *testing.T) {
	core := newTestCore(t)
	advanceFrame(core)
	frame := core.Clock.Frame()

	comp := newFake("c_0", SlotStart, SlotUpdate)
	a := core.Registry.Spawn("spawned")
	require.NoError(t, core.Registry.Attach(a, comp, true))
	require.Equal(t, frame, comp.frameAdded)

	// Creation frame: nothing reaches the component.
	core.Scheduler.DispatchStart()
	core.Scheduler.DispatchUpdate()
	core.Scheduler.DispatchLateUpdate()
	core.Registry.PromoteSpawned()
	assert.Empty(t, comp.calls)
	assert.False(t, comp.Started())

	// Next frame: start fires, then update.
	advanceFrame(core)
	core.Scheduler.DispatchStart()
	core.Scheduler.DispatchUpdate()
	assert.Equal(t, []string{SlotStart, SlotUpdate}, comp.calls)
}

func TestStartFiresExactlyOnce(t *testing.T) {
	core := newTestCore(t)

	comp := newFake("c_0", SlotStart, SlotUpdate)
	a := core.Registry.New("actor")
	require.NoError(t, core.Registry.Attach(a, comp, false))

	for i := 0; i < 5; i++ {
		core.Scheduler.DispatchStart()
		core.Scheduler.DispatchUpdate()
		advanceFrame(core)
	}

	starts := 0
	for _, call := range comp.calls {
		if call == SlotStart {
			starts++
		}
	}
	assert.Equal(t, 1, starts)
	// Start precedes every update.
	require.NotEmpty(t, comp.calls)
	assert.Equal(t, SlotStart, comp.calls[0])
}

func TestFaultIsolationAcrossSiblings(t *testing.T) {
	core := newTestCore(t)

	bad := newFake("a_bad", SlotUpdate)
	bad.slots[SlotUpdate] = func(...lua.LValue) error {
		return fmt.Errorf("boom")
	}
	good := newFake("b_good", SlotUpdate)

	a := core.Registry.New("actor")
	require.NoError(t, core.Registry.Attach(a, bad, false))
	require.NoError(t, core.Registry.Attach(a, good, false))

	core.Scheduler.DispatchUpdate()

	assert.Equal(t, []string{SlotUpdate}, bad.calls)
	assert.Equal(t, []string{SlotUpdate}, good.calls, "sibling must still run after a fault")
}

func TestDestroyCallbackKeyOrdering(t *testing.T) {
	core := newTestCore(t)

	var order []string
	mk := func(key string) *fakeScripted {
		f := newFake(key, SlotDestroy)
		f.slots[SlotDestroy] = func(...lua.LValue) error {
			order = append(order, key)
			return nil
		}
		return f
	}

	a := core.Registry.New("actor")
	// Insertion order deliberately not lexicographic.
	require.NoError(t, core.Registry.Attach(a, mk("B_0"), false))
	require.NoError(t, core.Registry.Attach(a, mk("A_0"), false))
	require.NoError(t, core.Registry.Attach(a, mk("C_1"), false))

	core.Registry.Destroy(a)

	assert.Equal(t, []string{"A_0", "B_0", "C_1"}, order)
}

func TestDestroyMidUpdateDefersErasure(t *testing.T) {
	core := newTestCore(t)

	victim := newFake("victim_0", SlotUpdate)
	victimActor := core.Registry.New("victim")
	require.NoError(t, core.Registry.Attach(victimActor, victim, false))

	killer := newFake("killer_0", SlotUpdate)
	killer.slots[SlotUpdate] = func(...lua.LValue) error {
		core.Registry.Destroy(victimActor)
		return nil
	}
	killerActor := core.Registry.New("killer")
	require.NoError(t, core.Registry.Attach(killerActor, killer, false))

	core.Scheduler.DispatchUpdate()

	// Flagged but still present until reconciliation.
	assert.True(t, victimActor.Destroyed)
	assert.NotNil(t, core.Registry.Get(victimActor.ID()))

	core.Registry.ReconcileDestroyed()
	assert.Nil(t, core.Registry.Get(victimActor.ID()))

	// No further dispatch reaches the destroyed component.
	victim.calls = nil
	core.Scheduler.DispatchUpdate()
	assert.Empty(t, victim.calls)
}

func TestActorIDsNeverReused(t *testing.T) {
	core := newTestCore(t)

	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		a := core.Registry.New(fmt.Sprintf("actor%d", i))
		require.False(t, seen[a.ID()], "id %d reused", a.ID())
		seen[a.ID()] = true
		core.Registry.Destroy(a)
		core.Registry.ReconcileDestroyed()
	}
}

func TestDisabledComponentSkipped(t *testing.T) {
	core := newTestCore(t)

	comp := newFake("c_0", SlotStart, SlotUpdate)
	comp.enabled = false
	a := core.Registry.New("actor")
	require.NoError(t, core.Registry.Attach(a, comp, false))

	core.Scheduler.DispatchStart()
	core.Scheduler.DispatchUpdate()
	assert.Empty(t, comp.calls)
}

func TestRemoveComponentDeferred(t *testing.T) {
	core := newTestCore(t)

	var destroyed bool
	comp := newFake("c_0", SlotUpdate, SlotDestroy)
	comp.slots[SlotDestroy] = func(...lua.LValue) error {
		destroyed = true
		return nil
	}
	a := core.Registry.New("actor")
	require.NoError(t, core.Registry.Attach(a, comp, false))

	a.RemoveComponent(comp)
	assert.False(t, destroyed, "destroy must wait for reconciliation")
	assert.False(t, comp.Enabled(), "removed component is disabled immediately")

	core.Registry.RemoveMarkedComponents()
	assert.True(t, destroyed)
	assert.Nil(t, a.ComponentByKey("c_0"))
}

func TestSiblingDispatchOrderIsSorted(t *testing.T) {
	core := newTestCore(t)

	var order []string
	mk := func(key string) *fakeScripted {
		f := newFake(key, SlotUpdate)
		f.slots[SlotUpdate] = func(...lua.LValue) error {
			order = append(order, key)
			return nil
		}
		return f
	}

	a := core.Registry.New("actor")
	require.NoError(t, core.Registry.Attach(a, mk("zeta"), false))
	require.NoError(t, core.Registry.Attach(a, mk("alpha"), false))
	require.NoError(t, core.Registry.Attach(a, mk("mid"), false))

	core.Scheduler.DispatchUpdate()
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, order)
}

func TestStartRegistrationDuringStartQueuesForNextPass(t *testing.T) {
	core := newTestCore(t)
	advanceFrame(core)

	late := newFake("late_0", SlotStart)

	first := newFake("first_0", SlotStart)
	a := core.Registry.New("actor")
	first.slots[SlotStart] = func(...lua.LValue) error {
		b := core.Registry.Spawn("spawned")
		return core.Registry.Attach(b, late, true)
	}
	require.NoError(t, core.Registry.Attach(a, first, false))

	core.Scheduler.DispatchStart()
	assert.Empty(t, late.calls, "re-entrant registration must not start this pass")

	core.Registry.PromoteSpawned()
	advanceFrame(core)
	core.Scheduler.DispatchStart()
	assert.Equal(t, []string{SlotStart}, late.calls)
}
