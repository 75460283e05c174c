package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Actor is a game object: a pure container of components with identity and a
// (non-unique) display name. Actors are exclusively owned by the Registry;
// holding an actor pointer across frames is unsafe — hold the ID and look it
// up again, because actors can be destroyed mid-frame.
type Actor struct {
	Name string

	// Destroyed marks the actor for deferred removal. Dispatch skips flagged
	// actors; physical erasure happens once per frame in ReconcileDestroyed.
	Destroyed bool

	// DontDestroy preserves the actor across scene transitions.
	DontDestroy bool

	id         uint64
	keys       []string // sorted; unique per component lifetime
	components map[string]Component
	toRemove   []string

	registry *Registry
}

// ID returns the globally unique actor id. Ids are never reused within a
// process run.
func (a *Actor) ID() uint64 { return a.id }

// ComponentByKey returns the component with the given instance key, or nil.
func (a *Actor) ComponentByKey(key string) Component {
	return a.components[key]
}

// ComponentByType returns the first component of the given type in sorted key
// order, or nil if the actor has none.
func (a *Actor) ComponentByType(typeName string) Component {
	for _, key := range a.keys {
		if c := a.components[key]; c != nil && c.TypeName() == typeName {
			return c
		}
	}
	return nil
}

// ComponentsByType returns every component of the given type in sorted key
// order.
func (a *Actor) ComponentsByType(typeName string) []Component {
	var result []Component
	for _, key := range a.keys {
		if c := a.components[key]; c != nil && c.TypeName() == typeName {
			result = append(result, c)
		}
	}
	return result
}

// Keys returns a copy of the component keys in sorted order.
func (a *Actor) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// AddComponent creates a component of the given type at runtime and attaches
// it. The new instance is suppressed for the remainder of the current frame;
// its OnStart fires on a later frame's start pass.
func (a *Actor) AddComponent(typeName string) (Component, error) {
	return a.registry.addRuntimeComponent(a, typeName)
}

// RemoveComponent marks a component for deferred removal at the end of the
// frame. The component is disabled immediately so no further lifecycle
// callbacks reach it; OnDestroy fires during removal reconciliation.
func (a *Actor) RemoveComponent(c Component) {
	if c == nil {
		return
	}
	key := c.Key()
	if _, ok := a.components[key]; !ok {
		return
	}
	if s, ok := c.(Scripted); ok {
		s.SetEnabled(false)
	}
	a.toRemove = append(a.toRemove, key)
}

// attach inserts a component under its key, keeping the key set sorted.
// The key must be unique within the actor.
func (a *Actor) attach(comp Component) error {
	key := comp.Key()
	if _, exists := a.components[key]; exists {
		return fmt.Errorf("actor %q: duplicate component key %q", a.Name, key)
	}
	if a.components == nil {
		a.components = make(map[string]Component)
	}
	a.components[key] = comp
	idx := sort.SearchStrings(a.keys, key)
	a.keys = append(a.keys, "")
	copy(a.keys[idx+1:], a.keys[idx:])
	a.keys[idx] = key
	return nil
}

// detach removes a component key from the actor. Idempotent.
func (a *Actor) detach(key string) {
	if _, ok := a.components[key]; !ok {
		return
	}
	delete(a.components, key)
	idx := sort.SearchStrings(a.keys, key)
	if idx < len(a.keys) && a.keys[idx] == key {
		a.keys = append(a.keys[:idx], a.keys[idx+1:]...)
	}
}

// destroyComponent runs the teardown callback for a single component: the
// scripted OnDestroy with fault containment, or the native release hook.
func (a *Actor) destroyComponent(comp Component, log *zap.Logger) {
	switch c := comp.(type) {
	case Scripted:
		if c.HasSlot(SlotDestroy) {
			if err := c.Call(SlotDestroy); err != nil {
				reportScriptError(log, a.Name, err)
			}
		}
	case Native:
		c.Destroy()
	}
}
