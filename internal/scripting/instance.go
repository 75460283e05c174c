package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// Instance is a scripted component: a Lua table whose unset reads delegate to
// the shared prototype. It satisfies the scheduler's component contract; the
// creation-frame bookkeeping lives on the Go side and is scheduler-managed.
type Instance struct {
	host     *Host
	table    *lua.LTable
	key      string
	typeName string

	frameAdded  uint64
	newAddition bool
}

var _ engine.Scripted = (*Instance)(nil)

func (i *Instance) Key() string      { return i.key }
func (i *Instance) TypeName() string { return i.typeName }

// Table exposes the raw instance table for bindings and property overrides.
func (i *Instance) Table() *lua.LTable { return i.table }

// Enabled reads the script-visible enabled flag; scripts may toggle
// self.enabled at any time and every dispatch phase honors it.
func (i *Instance) Enabled() bool {
	return lua.LVAsBool(i.host.state.GetField(i.table, "enabled"))
}

func (i *Instance) SetEnabled(enabled bool) {
	i.table.RawSetString("enabled", lua.LBool(enabled))
}

func (i *Instance) Started() bool {
	return lua.LVAsBool(i.table.RawGetString("on_start"))
}

func (i *Instance) MarkStarted() {
	i.table.RawSetString("on_start", lua.LTrue)
}

func (i *Instance) CreatedAt() (uint64, bool) {
	return i.frameAdded, i.newAddition
}

func (i *Instance) StampCreation(frame uint64) {
	i.frameAdded = frame
	i.newAddition = true
	// Mirrored for script visibility; scripts must not write these.
	i.table.RawSetString("frame_added", lua.LNumber(frame))
	i.table.RawSetString("new_addition", lua.LTrue)
}

// HasSlot reports whether the instance or its prototype exposes the named
// callable.
func (i *Instance) HasSlot(slot string) bool {
	return i.host.state.GetField(i.table, slot).Type() == lua.LTFunction
}

// Call invokes a slot with the instance as self. A raised script error is
// wrapped and returned; it never unwinds into engine control flow.
func (i *Instance) Call(slot string, args ...lua.LValue) error {
	L := i.host.state
	fn := L.GetField(i.table, slot)
	if fn.Type() != lua.LTFunction {
		return engine.ScriptError(slot, errNoSuchSlot)
	}

	callArgs := make([]lua.LValue, 0, len(args)+1)
	callArgs = append(callArgs, i.table)
	callArgs = append(callArgs, args...)

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, callArgs...); err != nil {
		return engine.ScriptError(slot, err)
	}
	return nil
}

// ApplyProps overrides instance fields from a decoded JSON property table
// (scene files and actor templates).
func (i *Instance) ApplyProps(props map[string]any) {
	for name, value := range props {
		i.table.RawSetString(name, i.host.ToLua(value))
	}
}
