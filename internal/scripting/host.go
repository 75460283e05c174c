// Package scripting owns the embedded Lua interpreter: it loads component
// prototypes from source files, creates per-instance tables linked to their
// prototype by one-level delegation, and exposes native engine capabilities
// as callable modules.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// Host owns one global interpreter state. All access is serialized by the
// engine's single-threadedness; a long-running script callback blocks the
// frame loop (accepted limitation, no watchdog).
type Host struct {
	log   *zap.Logger
	state *lua.LState

	// componentDir is where component type sources live
	// (<resources>/component_types/<Name>.lua).
	componentDir string

	// prototypes caches one parsed template per behavior name for the host's
	// lifetime. Prototype tables are treated as immutable after load:
	// mutating one would corrupt every instance's delegation fallback.
	prototypes map[string]*lua.LTable
}

func NewHost(resourcesDir string, log *zap.Logger) *Host {
	return &Host{
		log:          log,
		state:        lua.NewState(),
		componentDir: filepath.Join(resourcesDir, "component_types"),
		prototypes:   make(map[string]*lua.LTable),
	}
}

// Close shuts the interpreter down. Instances created by this host are
// unusable afterwards.
func (h *Host) Close() { h.state.Close() }

// State exposes the interpreter for the binding layer.
func (h *Host) State() *lua.LState { return h.state }

// LoadPrototype compiles a component type source once and caches the global
// table it defines. The file must define a global table named after the
// component type.
func (h *Host) LoadPrototype(typeName string) (*lua.LTable, error) {
	if proto, ok := h.prototypes[typeName]; ok {
		return proto, nil
	}

	path := filepath.Join(h.componentDir, typeName+".lua")
	if _, err := os.Stat(path); err != nil {
		return nil, engine.ResourceNotFound("component type", typeName)
	}
	if err := h.state.DoFile(path); err != nil {
		return nil, fmt.Errorf("%w: loading component type %q: %v", engine.ErrScript, typeName, err)
	}

	proto, ok := h.state.GetGlobal(typeName).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: component type %q must define a global table %q",
			engine.ErrScript, typeName, typeName)
	}
	h.prototypes[typeName] = proto
	return proto, nil
}

// NewInstance creates a scripted component instance of the given type under
// the given key. Reading an unset field falls through to the prototype;
// writes always land on the instance.
func (h *Host) NewInstance(typeName, key string) (*Instance, error) {
	proto, err := h.LoadPrototype(typeName)
	if err != nil {
		return nil, err
	}

	L := h.state
	table := L.NewTable()
	mt := L.NewTable()
	mt.RawSetString("__index", proto)
	L.SetMetatable(table, mt)

	table.RawSetString("key", lua.LString(key))
	table.RawSetString("type", lua.LString(typeName))
	table.RawSetString("enabled", lua.LTrue)
	table.RawSetString("on_start", lua.LFalse)

	return &Instance{
		host:     h,
		table:    table,
		key:      key,
		typeName: typeName,
	}, nil
}

// RegisterModule publishes a table of native functions as a global, e.g.
// Image.DrawEx or Actor.Find.
func (h *Host) RegisterModule(name string, fns map[string]lua.LGFunction) {
	module := h.state.SetFuncs(h.state.NewTable(), fns)
	h.state.SetGlobal(name, module)
}

// SetGlobal publishes an arbitrary value as a global.
func (h *Host) SetGlobal(name string, value lua.LValue) {
	h.state.SetGlobal(name, value)
}

// ToLua converts a decoded JSON value (string, bool, float64, []any,
// map[string]any) into its Lua representation. Unknown types map to nil.
func (h *Host) ToLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case float64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		table := h.state.NewTable()
		for _, item := range val {
			table.Append(h.ToLua(item))
		}
		return table
	case map[string]any:
		table := h.state.NewTable()
		for k, item := range val {
			table.RawSetString(k, h.ToLua(item))
		}
		return table
	default:
		h.log.Warn("unsupported property type", zap.Any("value", v))
		return lua.LNil
	}
}
