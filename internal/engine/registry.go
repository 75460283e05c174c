package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ComponentFactory creates a component instance for a (type, key) pair. The
// game layer implements it on top of the scripting host, special-casing
// native types such as Rigidbody. A missing component type is a fatal
// ResourceNotFound error.
type ComponentFactory interface {
	Create(typeName, key string) (Component, error)
}

type deferredInit struct {
	actorID    uint64
	key        string
	frameAdded uint64
	fresh      bool
}

// Registry owns all live actors. Creation assigns ids immediately but defers
// insertion into the active iteration list to the frame boundary; destruction
// marks now and erases at one well-defined point per frame.
type Registry struct {
	log     *zap.Logger
	clock   *Clock
	sched   *Scheduler
	factory ComponentFactory

	actors map[uint64]*Actor
	order  []uint64

	pendingAdd     []*Actor
	pendingDestroy []uint64
	pendingInit    []deferredInit

	nextID      uint64
	runtimeAdds int
}

func NewRegistry(clock *Clock, log *zap.Logger) *Registry {
	return &Registry{
		log:    log,
		clock:  clock,
		actors: make(map[uint64]*Actor),
		nextID: 1,
	}
}

// SetFactory wires the component factory used by runtime AddComponent calls
// and template instantiation.
func (r *Registry) SetFactory(f ComponentFactory) { r.factory = f }

func (r *Registry) setScheduler(s *Scheduler) { r.sched = s }

// New creates an actor and inserts it into the active iteration list
// immediately. This is the scene-load path; use Spawn for runtime creation.
func (r *Registry) New(name string) *Actor {
	a := r.alloc(name)
	r.order = append(r.order, a.id)
	return a
}

// Spawn creates an actor whose insertion into the active iteration list is
// deferred to the frame boundary. Components attached to it are suppressed
// for the current frame.
func (r *Registry) Spawn(name string) *Actor {
	a := r.alloc(name)
	r.pendingAdd = append(r.pendingAdd, a)
	return a
}

func (r *Registry) alloc(name string) *Actor {
	a := &Actor{
		Name:       name,
		id:         r.nextID,
		components: make(map[string]Component),
		registry:   r,
	}
	r.nextID++
	r.actors[a.id] = a
	return a
}

// Get returns the actor with the given id, or nil if it has been erased.
func (r *Registry) Get(id uint64) *Actor { return r.actors[id] }

// Len reports the number of actors in the active iteration list.
func (r *Registry) Len() int { return len(r.order) }

// Find returns the first live actor with the given name, checking the active
// list in insertion order and then actors spawned this frame.
func (r *Registry) Find(name string) *Actor {
	for _, id := range r.order {
		a := r.actors[id]
		if a != nil && a.Name == name && !a.Destroyed {
			return a
		}
	}
	for _, a := range r.pendingAdd {
		if a.Name == name && !a.Destroyed {
			return a
		}
	}
	return nil
}

// FindAll returns every live actor with the given name.
func (r *Registry) FindAll(name string) []*Actor {
	var result []*Actor
	for _, id := range r.order {
		a := r.actors[id]
		if a != nil && a.Name == name && !a.Destroyed {
			result = append(result, a)
		}
	}
	for _, a := range r.pendingAdd {
		if a.Name == name && !a.Destroyed {
			result = append(result, a)
		}
	}
	return result
}

// Attach adds a component to an actor and registers it with the scheduler.
// When runtime is true the component is stamped with the current frame for
// creation-frame suppression, and deferred-init natives queue for the next
// frame boundary; scene-load natives initialize immediately.
func (r *Registry) Attach(a *Actor, comp Component, runtime bool) error {
	if err := a.attach(comp); err != nil {
		return err
	}
	if runtime {
		if s, ok := comp.(Scripted); ok {
			s.StampCreation(r.clock.Frame())
		}
		if _, ok := comp.(DeferredInit); ok {
			r.pendingInit = append(r.pendingInit, deferredInit{
				actorID:    a.id,
				key:        comp.Key(),
				frameAdded: r.clock.Frame(),
				fresh:      true,
			})
		}
	} else if di, ok := comp.(DeferredInit); ok {
		if err := di.Init(a); err != nil {
			return err
		}
	}
	r.sched.Register(a.id, comp.Key(), comp)
	return nil
}

func (r *Registry) addRuntimeComponent(a *Actor, typeName string) (Component, error) {
	if r.factory == nil {
		return nil, fmt.Errorf("registry: no component factory wired")
	}
	key := fmt.Sprintf("rt%d_%s", r.runtimeAdds, typeName)
	r.runtimeAdds++
	comp, err := r.factory.Create(typeName, key)
	if err != nil {
		return nil, err
	}
	if err := r.Attach(a, comp, true); err != nil {
		return nil, err
	}
	return comp, nil
}

// Destroy marks an actor destroyed, fires destroy callbacks for all live
// component keys in sorted (lexicographic) order, disables the components and
// drops their cache entries. Physical erasure is deferred to
// ReconcileDestroyed — never mid-dispatch.
func (r *Registry) Destroy(a *Actor) {
	if a == nil || a.Destroyed {
		return
	}
	a.Destroyed = true
	r.pendingDestroy = append(r.pendingDestroy, a.id)

	for _, key := range a.Keys() {
		comp := a.components[key]
		if comp == nil {
			continue
		}
		a.destroyComponent(comp, r.log)
		if s, ok := comp.(Scripted); ok {
			s.SetEnabled(false)
		}
		r.sched.Unregister(a.id, key)
	}
}

// RemoveMarkedComponents processes each actor's deferred component-removal
// list: destroy callbacks fire in sorted key order, then the key is detached
// and purged from the scheduler caches.
func (r *Registry) RemoveMarkedComponents() {
	for _, id := range r.order {
		a := r.actors[id]
		if a == nil || len(a.toRemove) == 0 {
			continue
		}
		sort.Strings(a.toRemove)
		for _, key := range a.toRemove {
			if comp := a.components[key]; comp != nil {
				a.destroyComponent(comp, r.log)
			}
			a.detach(key)
			r.sched.Unregister(a.id, key)
		}
		a.toRemove = a.toRemove[:0]
	}
}

// ReconcileDestroyed erases flagged actors from the registry and the active
// iteration list in a single linear pass.
func (r *Registry) ReconcileDestroyed() {
	if len(r.pendingDestroy) == 0 {
		return
	}
	destroySet := make(map[uint64]struct{}, len(r.pendingDestroy))
	for _, id := range r.pendingDestroy {
		destroySet[id] = struct{}{}
		delete(r.actors, id)
	}
	write := 0
	for _, id := range r.order {
		if _, gone := destroySet[id]; !gone {
			r.order[write] = id
			write++
		}
	}
	r.order = r.order[:write]
	r.pendingDestroy = r.pendingDestroy[:0]
}

// PromoteSpawned moves this frame's spawned actors into the active iteration
// list. Called once per frame, after destruction reconciliation.
func (r *Registry) PromoteSpawned() {
	for _, a := range r.pendingAdd {
		if _, live := r.actors[a.id]; live {
			r.order = append(r.order, a.id)
		}
	}
	r.pendingAdd = r.pendingAdd[:0]
}

// InitDeferred initializes runtime-added native components, skipping entries
// added this exact frame (they initialize at the next boundary). Entries
// whose actor or component vanished are dropped, not retried.
func (r *Registry) InitDeferred() {
	frame := r.clock.Frame()
	remaining := r.pendingInit[:0]
	for i := range r.pendingInit {
		entry := r.pendingInit[i]
		if entry.fresh && entry.frameAdded == frame {
			entry.fresh = false
			remaining = append(remaining, entry)
			continue
		}
		a := r.actors[entry.actorID]
		if a == nil {
			continue
		}
		comp, ok := a.components[entry.key].(DeferredInit)
		if !ok {
			continue
		}
		if err := comp.Init(a); err != nil {
			r.log.Error("deferred component init failed",
				zap.String("actor", a.Name),
				zap.String("key", entry.key),
				zap.Error(err))
		}
	}
	r.pendingInit = remaining
}

// ClearForSceneChange tears down every non-persistent actor (destroy
// callbacks in sorted key order, faults contained) and re-seats persistent
// ones. The caller rebuilds scheduler caches afterwards via Rebuild.
func (r *Registry) ClearForSceneChange() {
	var persistent []*Actor
	for _, id := range r.order {
		a := r.actors[id]
		if a == nil {
			continue
		}
		if a.DontDestroy && !a.Destroyed {
			persistent = append(persistent, a)
			continue
		}
		for _, key := range a.Keys() {
			if comp := a.components[key]; comp != nil {
				a.destroyComponent(comp, r.log)
			}
		}
	}

	r.actors = make(map[uint64]*Actor, len(persistent))
	r.order = r.order[:0]
	r.pendingAdd = r.pendingAdd[:0]
	r.pendingDestroy = r.pendingDestroy[:0]
	r.pendingInit = r.pendingInit[:0]

	for _, a := range persistent {
		r.actors[a.id] = a
		r.order = append(r.order, a.id)
	}
}

// Rebuild repopulates the scheduler caches from every live actor, in active
// list order. Used after a scene load.
func (r *Registry) Rebuild() {
	r.sched.clearCaches()
	for _, id := range r.order {
		a := r.actors[id]
		if a == nil || a.Destroyed {
			continue
		}
		for _, key := range a.keys {
			if comp := a.components[key]; comp != nil {
				r.sched.Register(a.id, key, comp)
			}
		}
	}
}
