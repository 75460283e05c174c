package game

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
	"github.com/jack-chaudier/fr-ocean-engine/internal/physics"
	"github.com/jack-chaudier/fr-ocean-engine/internal/scripting"
)

// Lua userdata type names, registered as type metatables on the host state.
const (
	luaActorType     = "ActorRef"
	luaRigidbodyType = "RigidbodyRef"
)

// registerBindings publishes the full native API surface to the Lua state.
// Called once, after every subsystem exists.
func (g *Game) registerBindings() {
	L := g.host.State()

	actorMT := L.NewTypeMetatable(luaActorType)
	L.SetField(actorMT, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"GetName":           g.luaActorGetName,
		"GetID":             g.luaActorGetID,
		"GetComponent":      g.luaActorGetComponent,
		"GetComponents":     g.luaActorGetComponents,
		"GetComponentByKey": g.luaActorGetComponentByKey,
		"AddComponent":      g.luaActorAddComponent,
		"RemoveComponent":   g.luaActorRemoveComponent,
	}))

	rbMT := L.NewTypeMetatable(luaRigidbodyType)
	L.SetField(rbMT, "__index", L.SetFuncs(L.NewTable(), rigidbodyMethods(g)))

	g.host.RegisterModule("Actor", map[string]lua.LGFunction{
		"Find":        g.luaActorFind,
		"FindAll":     g.luaActorFindAll,
		"Instantiate": g.luaActorInstantiate,
		"Destroy":     g.luaActorDestroy,
	})
	g.host.RegisterModule("Scene", map[string]lua.LGFunction{
		"Load":        g.luaSceneLoad,
		"GetCurrent":  g.luaSceneGetCurrent,
		"DontDestroy": g.luaSceneDontDestroy,
	})
	g.host.RegisterModule("Application", map[string]lua.LGFunction{
		"Quit":     g.luaApplicationQuit,
		"Sleep":    g.luaApplicationSleep,
		"GetFrame": g.luaApplicationGetFrame,
		"OpenURL":  g.luaApplicationOpenURL,
	})
	g.host.RegisterModule("Debug", map[string]lua.LGFunction{
		"Log":      g.luaDebugLog,
		"LogError": g.luaDebugLogError,
	})

	g.registerServiceBindings()

	L.SetGlobal("Vector2", L.NewFunction(func(L *lua.LState) int {
		x := float64(L.CheckNumber(1))
		y := float64(L.CheckNumber(2))
		L.Push(vecTable(L, physics.Vec2{X: x, Y: y}))
		return 1
	}))
}

// --- userdata helpers ---

func (g *Game) wrapActor(id uint64) *lua.LUserData {
	L := g.host.State()
	ud := L.NewUserData()
	ud.Value = id
	L.SetMetatable(ud, L.GetTypeMetatable(luaActorType))
	return ud
}

func (g *Game) wrapRigidbody(rb *physics.Rigidbody) *lua.LUserData {
	L := g.host.State()
	ud := L.NewUserData()
	ud.Value = rb
	L.SetMetatable(ud, L.GetTypeMetatable(luaRigidbodyType))
	return ud
}

func checkActorID(L *lua.LState, n int) uint64 {
	ud := L.CheckUserData(n)
	id, ok := ud.Value.(uint64)
	if !ok {
		L.ArgError(n, "actor reference expected")
	}
	return id
}

func checkRigidbody(L *lua.LState, n int) *physics.Rigidbody {
	ud := L.CheckUserData(n)
	rb, ok := ud.Value.(*physics.Rigidbody)
	if !ok {
		L.ArgError(n, "rigidbody reference expected")
	}
	return rb
}

// actorArg resolves the actor behind a userdata argument, raising a Lua error
// on a stale reference is deliberately avoided: destroyed actors read as nil.
func (g *Game) actorArg(L *lua.LState, n int) *engine.Actor {
	return g.core.Registry.Get(checkActorID(L, n))
}

// componentValue converts a component to its Lua representation: scripted
// components are their own table, rigidbodies are userdata.
func (g *Game) componentValue(comp engine.Component) lua.LValue {
	switch c := comp.(type) {
	case *scripting.Instance:
		return c.Table()
	case *physics.Rigidbody:
		return g.wrapRigidbody(c)
	default:
		return lua.LNil
	}
}

// injectActorRef gives a scripted instance its back-reference (`self.actor`).
// Weak by construction: it holds the id, and lookups on a destroyed actor
// return nil.
func (g *Game) injectActorRef(a *engine.Actor, comp engine.Component) {
	if inst, ok := comp.(*scripting.Instance); ok {
		inst.Table().RawSetString("actor", g.wrapActor(a.ID()))
	}
}

func vecTable(L *lua.LState, v physics.Vec2) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("x", lua.LNumber(v.X))
	t.RawSetString("y", lua.LNumber(v.Y))
	return t
}

func vecArg(L *lua.LState, n int) physics.Vec2 {
	t := L.CheckTable(n)
	return physics.Vec2{
		X: float64(lua.LVAsNumber(t.RawGetString("x"))),
		Y: float64(lua.LVAsNumber(t.RawGetString("y"))),
	}
}

// --- actor methods ---

func (g *Game) luaActorGetName(L *lua.LState) int {
	a := g.actorArg(L, 1)
	if a == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(a.Name))
	return 1
}

func (g *Game) luaActorGetID(L *lua.LState) int {
	L.Push(lua.LNumber(checkActorID(L, 1)))
	return 1
}

func (g *Game) luaActorGetComponent(L *lua.LState) int {
	a := g.actorArg(L, 1)
	typeName := L.CheckString(2)
	if a == nil {
		L.Push(lua.LNil)
		return 1
	}
	comp := a.ComponentByType(typeName)
	if comp == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(g.componentValue(comp))
	return 1
}

func (g *Game) luaActorGetComponents(L *lua.LState) int {
	a := g.actorArg(L, 1)
	typeName := L.CheckString(2)
	result := L.NewTable()
	if a != nil {
		for _, comp := range a.ComponentsByType(typeName) {
			result.Append(g.componentValue(comp))
		}
	}
	L.Push(result)
	return 1
}

func (g *Game) luaActorGetComponentByKey(L *lua.LState) int {
	a := g.actorArg(L, 1)
	key := L.CheckString(2)
	if a == nil {
		L.Push(lua.LNil)
		return 1
	}
	comp := a.ComponentByKey(key)
	if comp == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(g.componentValue(comp))
	return 1
}

func (g *Game) luaActorAddComponent(L *lua.LState) int {
	a := g.actorArg(L, 1)
	typeName := L.CheckString(2)
	if a == nil {
		L.Push(lua.LNil)
		return 1
	}
	comp, err := a.AddComponent(typeName)
	if err != nil {
		if errors.Is(err, engine.ErrResourceNotFound) {
			g.fail(err)
		} else {
			g.reportBindingError("AddComponent", a.Name, err)
		}
		L.Push(lua.LNil)
		return 1
	}
	g.injectActorRef(a, comp)
	L.Push(g.componentValue(comp))
	return 1
}

func (g *Game) luaActorRemoveComponent(L *lua.LState) int {
	a := g.actorArg(L, 1)
	if a == nil {
		return 0
	}
	key := componentKeyArg(L, 2)
	if key == "" {
		return 0
	}
	a.RemoveComponent(a.ComponentByKey(key))
	return 0
}

// componentKeyArg extracts the instance key from a component value: scripted
// tables carry a "key" field, rigidbody userdata answers Key().
func componentKeyArg(L *lua.LState, n int) string {
	switch v := L.CheckAny(n).(type) {
	case *lua.LTable:
		return lua.LVAsString(v.RawGetString("key"))
	case *lua.LUserData:
		if rb, ok := v.Value.(*physics.Rigidbody); ok {
			return rb.Key()
		}
	}
	return ""
}

// --- Actor module ---

func (g *Game) luaActorFind(L *lua.LState) int {
	name := L.CheckString(1)
	a := g.core.Registry.Find(name)
	if a == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(g.wrapActor(a.ID()))
	return 1
}

func (g *Game) luaActorFindAll(L *lua.LState) int {
	name := L.CheckString(1)
	result := L.NewTable()
	for _, a := range g.core.Registry.FindAll(name) {
		result.Append(g.wrapActor(a.ID()))
	}
	L.Push(result)
	return 1
}

func (g *Game) luaActorInstantiate(L *lua.LState) int {
	templateName := L.CheckString(1)
	a, err := g.loader.Instantiate(templateName)
	if err != nil {
		// A missing template is a broken content pipeline, same as any
		// other missing asset.
		g.fail(err)
		L.Push(lua.LNil)
		return 1
	}
	L.Push(g.wrapActor(a.ID()))
	return 1
}

func (g *Game) luaActorDestroy(L *lua.LState) int {
	g.core.Registry.Destroy(g.actorArg(L, 1))
	return 0
}

// --- Scene module ---

func (g *Game) luaSceneLoad(L *lua.LState) int {
	g.pendingScene = L.CheckString(1)
	return 0
}

func (g *Game) luaSceneGetCurrent(L *lua.LState) int {
	L.Push(lua.LString(g.currentScene))
	return 1
}

func (g *Game) luaSceneDontDestroy(L *lua.LState) int {
	if a := g.actorArg(L, 1); a != nil {
		a.DontDestroy = true
	}
	return 0
}

// --- Application / Debug modules ---

func (g *Game) luaApplicationQuit(L *lua.LState) int {
	g.quit = true
	return 0
}

func (g *Game) luaApplicationSleep(L *lua.LState) int {
	sleepMilliseconds(int(L.CheckNumber(1)))
	return 0
}

func (g *Game) luaApplicationGetFrame(L *lua.LState) int {
	L.Push(lua.LNumber(g.core.Clock.Frame()))
	return 1
}

func (g *Game) luaApplicationOpenURL(L *lua.LState) int {
	url := L.CheckString(1)
	if err := openURL(url); err != nil {
		g.log.Warn("OpenURL failed", zap.String("url", url), zap.Error(err))
	}
	return 0
}

func (g *Game) luaDebugLog(L *lua.LState) int {
	g.log.Info(L.CheckString(1))
	return 0
}

func (g *Game) luaDebugLogError(L *lua.LState) int {
	g.log.Error(L.CheckString(1))
	return 0
}

func (g *Game) reportBindingError(op, subject string, err error) {
	g.log.Error("binding call failed",
		zap.String("op", op),
		zap.String("subject", subject),
		zap.Error(err))
}
