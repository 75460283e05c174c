package engine

import (
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

type cacheKey struct {
	actorID uint64
	key     string
}

func (k cacheKey) less(other cacheKey) bool {
	if k.actorID != other.actorID {
		return k.actorID < other.actorID
	}
	return k.key < other.key
}

// Scheduler decides, each frame, which component instances receive which
// lifecycle callback. It maintains three independent caches keyed by
// (actor id, component key) and tolerates components being added or removed
// by the very callbacks it is invoking.
//
// Sibling ordering within a pass is sorted (actor id, component key) order;
// the only hard cross-phase promise is start before update before late-update
// within a frame.
type Scheduler struct {
	log      *zap.Logger
	clock    *Clock
	registry *Registry

	start      map[cacheKey]Scripted
	update     map[cacheKey]Component
	lateUpdate map[cacheKey]Component
}

func NewScheduler(registry *Registry, clock *Clock, log *zap.Logger) *Scheduler {
	s := &Scheduler{
		log:        log,
		clock:      clock,
		registry:   registry,
		start:      make(map[cacheKey]Scripted),
		update:     make(map[cacheKey]Component),
		lateUpdate: make(map[cacheKey]Component),
	}
	registry.setScheduler(s)
	return s
}

// Register inspects a component for lifecycle slots and inserts the matching
// cache entries. Native components always sit in the update and late-update
// caches — not to receive scripted calls, but so their teardown bookkeeping
// is visited. Disabled scripted components are not cached; they re-enter the
// caches only via a rebuild or re-registration.
func (s *Scheduler) Register(actorID uint64, key string, comp Component) {
	ck := cacheKey{actorID: actorID, key: key}

	if _, native := comp.(Native); native {
		s.update[ck] = comp
		s.lateUpdate[ck] = comp
		return
	}

	sc, ok := comp.(Scripted)
	if !ok || !sc.Enabled() {
		return
	}
	if sc.HasSlot(SlotStart) && !sc.Started() {
		s.start[ck] = sc
	}
	if sc.HasSlot(SlotUpdate) {
		s.update[ck] = sc
	}
	if sc.HasSlot(SlotLateUpdate) {
		s.lateUpdate[ck] = sc
	}
}

// Unregister removes all cache entries for the (actor, key) pair. Idempotent.
func (s *Scheduler) Unregister(actorID uint64, key string) {
	ck := cacheKey{actorID: actorID, key: key}
	delete(s.start, ck)
	delete(s.update, ck)
	delete(s.lateUpdate, ck)
}

func (s *Scheduler) clearCaches() {
	clear(s.start)
	clear(s.update)
	clear(s.lateUpdate)
}

// DispatchStart runs the start pass. The pending cache is snapshotted and
// cleared before any callback executes, so registrations made by a start
// callback queue for the next pass instead of extending the current one.
// Components created this exact frame are re-queued, not dropped: their
// start fires on a later frame.
func (s *Scheduler) DispatchStart() {
	if len(s.start) == 0 {
		return
	}
	pending := s.start
	s.start = make(map[cacheKey]Scripted)

	frame := s.clock.Frame()
	for _, ck := range sortedKeys(pending) {
		comp := pending[ck]

		actor := s.registry.Get(ck.actorID)
		if actor == nil || actor.Destroyed {
			continue
		}
		if !comp.Enabled() || comp.Started() {
			continue
		}
		if added, fresh := comp.CreatedAt(); fresh && added == frame {
			s.start[ck] = comp
			continue
		}

		if err := comp.Call(SlotStart); err != nil {
			reportScriptError(s.log, actor.Name, err)
		}
		comp.MarkStarted()
	}
}

// DispatchUpdate runs the scripted OnUpdate pass over a stable snapshot of
// the cache keys, re-validating each entry at invocation time.
func (s *Scheduler) DispatchUpdate() {
	s.dispatchPass(s.update, SlotUpdate)
}

// DispatchLateUpdate runs the scripted OnLateUpdate pass.
func (s *Scheduler) DispatchLateUpdate() {
	s.dispatchPass(s.lateUpdate, SlotLateUpdate)
}

func (s *Scheduler) dispatchPass(cache map[cacheKey]Component, slot string) {
	if len(cache) == 0 {
		return
	}
	// Keys are snapshotted before dispatch so cache mutation mid-pass cannot
	// corrupt iteration; each entry is re-validated at invocation time.
	keys := sortedKeys(cache)
	frame := s.clock.Frame()

	for _, ck := range keys {
		comp, present := cache[ck]
		if !present {
			continue
		}
		actor := s.registry.Get(ck.actorID)
		if actor == nil || actor.Destroyed {
			continue
		}

		sc, ok := comp.(Scripted)
		if !ok {
			// Native entries are bookkeeping only.
			continue
		}
		if !sc.Enabled() {
			continue
		}
		if added, fresh := sc.CreatedAt(); fresh && added == frame {
			continue
		}

		if err := sc.Call(slot); err != nil {
			reportScriptError(s.log, actor.Name, err)
		}
	}
}

// DispatchSlot invokes a named slot on every component of one actor that
// exposes it, with the scheduler's fault-isolation policy. Used by the
// physics bridge for collision and trigger callbacks.
func (s *Scheduler) DispatchSlot(actorID uint64, slot string, args ...lua.LValue) {
	actor := s.registry.Get(actorID)
	if actor == nil || actor.Destroyed {
		return
	}
	for _, key := range actor.Keys() {
		sc, ok := actor.components[key].(Scripted)
		if !ok || !sc.Enabled() || !sc.HasSlot(slot) {
			continue
		}
		if err := sc.Call(slot, args...); err != nil {
			reportScriptError(s.log, actor.Name, err)
		}
	}
}

func sortedKeys[V any](m map[cacheKey]V) []cacheKey {
	keys := make([]cacheKey, 0, len(m))
	for ck := range m {
		keys = append(keys, ck)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// reportScriptError logs a contained script fault with the owning actor's
// identity. Backslashes are normalized so Windows paths in Lua tracebacks
// compare stably in logs.
func reportScriptError(log *zap.Logger, actorName string, err error) {
	log.Error("script error",
		zap.String("actor", actorName),
		zap.String("detail", strings.ReplaceAll(err.Error(), `\`, "/")))
}
