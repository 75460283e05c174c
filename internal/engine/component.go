package engine

import lua "github.com/yuin/gopher-lua"

// Lifecycle slot names the scheduler dispatches. A component exposes any
// subset of these; the scheduler only caches the ones that are present.
const (
	SlotStart      = "OnStart"
	SlotUpdate     = "OnUpdate"
	SlotLateUpdate = "OnLateUpdate"
	SlotDestroy    = "OnDestroy"

	SlotCollisionEnter = "OnCollisionEnter"
	SlotCollisionStay  = "OnCollisionStay"
	SlotCollisionExit  = "OnCollisionExit"
	SlotTriggerEnter   = "OnTriggerEnter"
	SlotTriggerStay    = "OnTriggerStay"
	SlotTriggerExit    = "OnTriggerExit"
)

// Component is a named behavior or data unit attached to an actor, addressed
// by a key unique within the actor for the component's lifetime.
type Component interface {
	// Key is the instance key within the owning actor (e.g. "Mover_0").
	Key() string
	// TypeName is the behavior/template name (e.g. "Mover", "Rigidbody").
	TypeName() string
}

// Scripted is the contract the scheduler requires from a script-backed
// component instance. The two bookkeeping fields (started, creation frame)
// are scheduler-managed; scripts must not mutate them directly.
type Scripted interface {
	Component

	// Enabled is honored by every dispatch phase.
	Enabled() bool
	SetEnabled(enabled bool)

	// Started reports whether OnStart has fired for this instance.
	Started() bool
	MarkStarted()

	// CreatedAt returns the frame the instance was added on and whether it
	// was a runtime addition (the pair driving creation-frame suppression).
	CreatedAt() (frame uint64, runtimeAddition bool)

	// StampCreation records the creation frame for suppression. Called by
	// the registry when the component is attached at runtime.
	StampCreation(frame uint64)

	// HasSlot reports whether the instance (or its prototype) exposes the
	// named callable slot.
	HasSlot(slot string) bool

	// Call invokes a slot with the instance itself as the first argument
	// followed by args. A script-level fault is returned, never raised.
	Call(slot string, args ...lua.LValue) error
}

// Native is implemented by engine-provided (non-scripted) components such as
// physics bodies. They participate in the component key space and teardown
// ordering but are skipped by the scripted dispatch path.
type Native interface {
	Component

	// Destroy releases native resources. Called during teardown in sorted
	// key order alongside scripted OnDestroy callbacks.
	Destroy()
}

// DeferredInit is implemented by native components that must not come alive
// during their creation frame (a runtime-added rigidbody initializes at the
// next frame boundary, after creation-frame suppression expires).
type DeferredInit interface {
	Native

	// Init binds the component to its owning actor and allocates native
	// state. Safe to call once; the registry drives it.
	Init(owner *Actor) error
}
