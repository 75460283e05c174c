package game

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
	"github.com/jack-chaudier/fr-ocean-engine/internal/physics"
	"github.com/jack-chaudier/fr-ocean-engine/internal/render"
)

func (g *Game) registerServiceBindings() {
	g.host.RegisterModule("Input", map[string]lua.LGFunction{
		"GetKey":              g.luaInputGetKey,
		"GetKeyDown":          g.luaInputGetKeyDown,
		"GetKeyUp":            g.luaInputGetKeyUp,
		"GetMousePosition":    g.luaInputGetMousePosition,
		"GetMouseButton":      g.luaInputGetMouseButton,
		"GetMouseButtonDown":  g.luaInputGetMouseButtonDown,
		"GetMouseButtonUp":    g.luaInputGetMouseButtonUp,
		"GetMouseScrollDelta": g.luaInputGetMouseScrollDelta,
		"ShowCursor":          g.luaInputShowCursor,
		"HideCursor":          g.luaInputHideCursor,
	})
	g.host.RegisterModule("Image", map[string]lua.LGFunction{
		"Draw":      g.luaImageDraw,
		"DrawEx":    g.luaImageDrawEx,
		"DrawUI":    g.luaImageDrawUI,
		"DrawUIEx":  g.luaImageDrawUIEx,
		"DrawPixel": g.luaImageDrawPixel,
	})
	g.host.RegisterModule("Text", map[string]lua.LGFunction{
		"Draw": g.luaTextDraw,
	})
	g.host.RegisterModule("Audio", map[string]lua.LGFunction{
		"Play":      g.luaAudioPlay,
		"Halt":      g.luaAudioHalt,
		"SetVolume": g.luaAudioSetVolume,
	})
	g.host.RegisterModule("Camera", map[string]lua.LGFunction{
		"SetPosition":  g.luaCameraSetPosition,
		"GetPositionX": g.luaCameraGetPositionX,
		"GetPositionY": g.luaCameraGetPositionY,
		"SetZoom":      g.luaCameraSetZoom,
		"GetZoom":      g.luaCameraGetZoom,
	})
	g.host.RegisterModule("Physics", map[string]lua.LGFunction{
		"Raycast":           g.luaPhysicsRaycast,
		"RaycastAll":        g.luaPhysicsRaycastAll,
		"DefineLayer":       g.luaPhysicsDefineLayer,
		"SetLayerCollision": g.luaPhysicsSetLayerCollision,
	})
	g.host.RegisterModule("Timer", map[string]lua.LGFunction{
		"After":     g.luaTimerAfter,
		"Every":     g.luaTimerEvery,
		"Cancel":    g.luaTimerCancel,
		"CancelAll": g.luaTimerCancelAll,
	})
	g.host.RegisterModule("Tween", map[string]lua.LGFunction{
		"To":        g.luaTweenTo,
		"Cancel":    g.luaTweenCancel,
		"CancelAll": g.luaTweenCancelAll,
	})
	g.host.RegisterModule("Event", map[string]lua.LGFunction{
		"Publish":        g.luaEventPublish,
		"Subscribe":      g.luaEventSubscribe,
		"SubscribeOnce":  g.luaEventSubscribeOnce,
		"Unsubscribe":    g.luaEventUnsubscribe,
		"UnsubscribeAll": g.luaEventUnsubscribeAll,
	})
}

// --- Input ---

func (g *Game) luaInputGetKey(L *lua.LState) int {
	L.Push(lua.LBool(g.input.Key(L.CheckString(1))))
	return 1
}

func (g *Game) luaInputGetKeyDown(L *lua.LState) int {
	L.Push(lua.LBool(g.input.KeyDown(L.CheckString(1))))
	return 1
}

func (g *Game) luaInputGetKeyUp(L *lua.LState) int {
	L.Push(lua.LBool(g.input.KeyUp(L.CheckString(1))))
	return 1
}

func (g *Game) luaInputGetMousePosition(L *lua.LState) int {
	x, y := g.input.MousePosition()
	L.Push(vecTable(L, physics.Vec2{X: x, Y: y}))
	return 1
}

func (g *Game) luaInputGetMouseButton(L *lua.LState) int {
	L.Push(lua.LBool(g.input.MouseButton(int(L.CheckNumber(1)))))
	return 1
}

func (g *Game) luaInputGetMouseButtonDown(L *lua.LState) int {
	L.Push(lua.LBool(g.input.MouseButtonDown(int(L.CheckNumber(1)))))
	return 1
}

func (g *Game) luaInputGetMouseButtonUp(L *lua.LState) int {
	L.Push(lua.LBool(g.input.MouseButtonUp(int(L.CheckNumber(1)))))
	return 1
}

func (g *Game) luaInputGetMouseScrollDelta(L *lua.LState) int {
	L.Push(lua.LNumber(g.input.ScrollDelta()))
	return 1
}

func (g *Game) luaInputShowCursor(L *lua.LState) int {
	g.input.ShowCursor()
	return 0
}

func (g *Game) luaInputHideCursor(L *lua.LState) int {
	g.input.HideCursor()
	return 0
}

// --- Image / Text ---

func (g *Game) luaImageDraw(L *lua.LState) int {
	g.renderer.Queue.SubmitWorld(render.DrawRequest{
		Image:  L.CheckString(1),
		X:      float64(L.CheckNumber(2)),
		Y:      float64(L.CheckNumber(3)),
		ScaleX: 1, ScaleY: 1,
		PivotX: 0.5, PivotY: 0.5,
		Color: render.White,
	})
	return 0
}

func (g *Game) luaImageDrawEx(L *lua.LState) int {
	g.renderer.Queue.SubmitWorld(render.DrawRequest{
		Image:           L.CheckString(1),
		X:               float64(L.CheckNumber(2)),
		Y:               float64(L.CheckNumber(3)),
		RotationDegrees: float64(L.CheckNumber(4)),
		ScaleX:          float64(L.CheckNumber(5)),
		ScaleY:          float64(L.CheckNumber(6)),
		PivotX:          float64(L.CheckNumber(7)),
		PivotY:          float64(L.CheckNumber(8)),
		Color:           colorArgs(L, 9),
		SortingOrder:    int(L.CheckNumber(13)),
	})
	return 0
}

func (g *Game) luaImageDrawUI(L *lua.LState) int {
	g.renderer.Queue.SubmitScreen(render.DrawRequest{
		Image:  L.CheckString(1),
		X:      float64(L.CheckNumber(2)),
		Y:      float64(L.CheckNumber(3)),
		ScaleX: 1, ScaleY: 1,
		Color: render.White,
	})
	return 0
}

func (g *Game) luaImageDrawUIEx(L *lua.LState) int {
	g.renderer.Queue.SubmitScreen(render.DrawRequest{
		Image:        L.CheckString(1),
		X:            float64(L.CheckNumber(2)),
		Y:            float64(L.CheckNumber(3)),
		ScaleX:       1,
		ScaleY:       1,
		Color:        colorArgs(L, 4),
		SortingOrder: int(L.CheckNumber(8)),
	})
	return 0
}

func (g *Game) luaImageDrawPixel(L *lua.LState) int {
	g.renderer.Queue.SubmitPixel(render.PixelRequest{
		X:     float64(L.CheckNumber(1)),
		Y:     float64(L.CheckNumber(2)),
		Color: colorArgs(L, 3),
	})
	return 0
}

func (g *Game) luaTextDraw(L *lua.LState) int {
	g.renderer.Queue.SubmitText(render.TextRequest{
		Content:  L.CheckString(1),
		X:        float64(L.CheckNumber(2)),
		Y:        float64(L.CheckNumber(3)),
		FontName: L.CheckString(4),
		FontSize: int(L.CheckNumber(5)),
		Color:    colorArgs(L, 6),
	})
	return 0
}

// colorArgs reads four consecutive r,g,b,a numbers starting at n, clamped to
// [0,255].
func colorArgs(L *lua.LState, n int) render.RGBA {
	return render.RGBA{
		R: render.ClampChannel(float64(L.CheckNumber(n))),
		G: render.ClampChannel(float64(L.CheckNumber(n + 1))),
		B: render.ClampChannel(float64(L.CheckNumber(n + 2))),
		A: render.ClampChannel(float64(L.CheckNumber(n + 3))),
	}
}

// --- Audio ---

func (g *Game) luaAudioPlay(L *lua.LState) int {
	channel := int(L.CheckNumber(1))
	clip := L.CheckString(2)
	loop := L.OptBool(3, false)
	if err := g.mixer.Play(channel, clip, loop); err != nil {
		g.fail(err)
	}
	return 0
}

func (g *Game) luaAudioHalt(L *lua.LState) int {
	g.mixer.Halt(int(L.CheckNumber(1)))
	return 0
}

func (g *Game) luaAudioSetVolume(L *lua.LState) int {
	g.mixer.SetVolume(int(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	return 0
}

// --- Camera ---

func (g *Game) luaCameraSetPosition(L *lua.LState) int {
	g.renderer.Camera.SetPosition(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	return 0
}

func (g *Game) luaCameraGetPositionX(L *lua.LState) int {
	L.Push(lua.LNumber(g.renderer.Camera.X()))
	return 1
}

func (g *Game) luaCameraGetPositionY(L *lua.LState) int {
	L.Push(lua.LNumber(g.renderer.Camera.Y()))
	return 1
}

func (g *Game) luaCameraSetZoom(L *lua.LState) int {
	g.renderer.Camera.SetZoom(float64(L.CheckNumber(1)))
	return 0
}

func (g *Game) luaCameraGetZoom(L *lua.LState) int {
	L.Push(lua.LNumber(g.renderer.Camera.Zoom()))
	return 1
}

// --- Physics queries ---

func (g *Game) luaPhysicsRaycast(L *lua.LState) int {
	origin := vecArg(L, 1)
	direction := vecArg(L, 2)
	distance := float64(L.CheckNumber(3))

	hit, ok := g.world.Raycast(origin, direction, distance)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(g.hitTable(L, hit))
	return 1
}

func (g *Game) luaPhysicsRaycastAll(L *lua.LState) int {
	origin := vecArg(L, 1)
	direction := vecArg(L, 2)
	distance := float64(L.CheckNumber(3))

	result := L.NewTable()
	for _, hit := range g.world.RaycastAll(origin, direction, distance) {
		result.Append(g.hitTable(L, hit))
	}
	L.Push(result)
	return 1
}

func (g *Game) luaPhysicsDefineLayer(L *lua.LState) int {
	name := L.CheckString(1)
	if err := g.world.Layers().DefineLayer(name); err != nil {
		g.reportBindingError("Physics.DefineLayer", name, err)
	}
	return 0
}

func (g *Game) luaPhysicsSetLayerCollision(L *lua.LState) int {
	a := L.CheckString(1)
	b := L.CheckString(2)
	collide := L.CheckBool(3)
	if err := g.world.Layers().SetLayerCollision(a, b, collide); err != nil {
		g.reportBindingError("Physics.SetLayerCollision", a+"/"+b, err)
	}
	return 0
}

func (g *Game) hitTable(L *lua.LState, hit physics.Hit) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("actor", g.wrapActor(hit.ActorID))
	t.RawSetString("point", vecTable(L, hit.Point))
	t.RawSetString("normal", vecTable(L, hit.Normal))
	t.RawSetString("fraction", lua.LNumber(hit.Fraction))
	t.RawSetString("is_trigger", lua.LBool(hit.IsTrigger))
	return t
}

// --- Timer / Tween / Event ---

// luaThunk adapts a Lua function to an error-returning Go callback with the
// host's protected-call policy.
func (g *Game) luaThunk(fn *lua.LFunction, args ...lua.LValue) func() error {
	return func() error {
		L := g.host.State()
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	}
}

func (g *Game) luaTimerAfter(L *lua.LState) int {
	delay := float64(L.CheckNumber(1))
	fn := L.CheckFunction(2)
	L.Push(lua.LNumber(g.core.Timers.After(delay, g.luaThunk(fn))))
	return 1
}

func (g *Game) luaTimerEvery(L *lua.LState) int {
	delay := float64(L.CheckNumber(1))
	interval := float64(L.CheckNumber(2))
	fn := L.CheckFunction(3)
	L.Push(lua.LNumber(g.core.Timers.Every(delay, interval, g.luaThunk(fn))))
	return 1
}

func (g *Game) luaTimerCancel(L *lua.LState) int {
	g.core.Timers.Cancel(int(L.CheckNumber(1)))
	return 0
}

func (g *Game) luaTimerCancelAll(L *lua.LState) int {
	g.core.Timers.CancelAll()
	return 0
}

func (g *Game) luaTweenTo(L *lua.LState) int {
	from := float64(L.CheckNumber(1))
	to := float64(L.CheckNumber(2))
	duration := float64(L.CheckNumber(3))
	ease := engine.ParseEaseType(L.CheckString(4))
	onUpdate := L.CheckFunction(5)

	var onComplete func() error
	if fn, ok := L.Get(6).(*lua.LFunction); ok {
		onComplete = g.luaThunk(fn)
	}

	id := g.core.Tweens.To(from, to, duration, ease, func(value float64) error {
		return g.luaThunk(onUpdate, lua.LNumber(value))()
	}, onComplete)
	L.Push(lua.LNumber(id))
	return 1
}

func (g *Game) luaTweenCancel(L *lua.LState) int {
	g.core.Tweens.Cancel(int(L.CheckNumber(1)))
	return 0
}

func (g *Game) luaTweenCancelAll(L *lua.LState) int {
	g.core.Tweens.CancelAll()
	return 0
}

func (g *Game) luaEventPublish(L *lua.LState) int {
	event := L.CheckString(1)
	data := L.Get(2)
	g.core.Events.Publish(event, data)
	return 0
}

func (g *Game) luaEventSubscribe(L *lua.LState) int {
	event := L.CheckString(1)
	fn := L.CheckFunction(2)
	L.Push(lua.LNumber(g.core.Events.Subscribe(event, g.eventThunk(fn))))
	return 1
}

func (g *Game) luaEventSubscribeOnce(L *lua.LState) int {
	event := L.CheckString(1)
	fn := L.CheckFunction(2)
	L.Push(lua.LNumber(g.core.Events.SubscribeOnce(event, g.eventThunk(fn))))
	return 1
}

func (g *Game) luaEventUnsubscribe(L *lua.LState) int {
	g.core.Events.Unsubscribe(int(L.CheckNumber(1)))
	return 0
}

func (g *Game) luaEventUnsubscribeAll(L *lua.LState) int {
	g.core.Events.UnsubscribeAll(L.CheckString(1))
	return 0
}

func (g *Game) eventThunk(fn *lua.LFunction) engine.EventFunc {
	return func(data any) error {
		arg, ok := data.(lua.LValue)
		if !ok {
			arg = lua.LNil
		}
		L := g.host.State()
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, arg)
	}
}

// --- Rigidbody methods ---

func rigidbodyMethods(g *Game) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"GetPosition": func(L *lua.LState) int {
			L.Push(vecTable(L, checkRigidbody(L, 1).Position()))
			return 1
		},
		"SetPosition": func(L *lua.LState) int {
			checkRigidbody(L, 1).SetPosition(vecArg(L, 2))
			return 0
		},
		"GetRotation": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkRigidbody(L, 1).Rotation()))
			return 1
		},
		"SetRotation": func(L *lua.LState) int {
			checkRigidbody(L, 1).SetRotation(float64(L.CheckNumber(2)))
			return 0
		},
		"GetVelocity": func(L *lua.LState) int {
			L.Push(vecTable(L, checkRigidbody(L, 1).Velocity()))
			return 1
		},
		"SetVelocity": func(L *lua.LState) int {
			checkRigidbody(L, 1).SetVelocity(vecArg(L, 2))
			return 0
		},
		"GetAngularVelocity": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkRigidbody(L, 1).AngularVelocity()))
			return 1
		},
		"SetAngularVelocity": func(L *lua.LState) int {
			checkRigidbody(L, 1).SetAngularVelocity(float64(L.CheckNumber(2)))
			return 0
		},
		"AddForce": func(L *lua.LState) int {
			checkRigidbody(L, 1).AddForce(vecArg(L, 2))
			return 0
		},
		"GetGravityScale": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkRigidbody(L, 1).GravityScale))
			return 1
		},
		"SetGravityScale": func(L *lua.LState) int {
			checkRigidbody(L, 1).SetGravityScale(float64(L.CheckNumber(2)))
			return 0
		},
		"GetUpDirection": func(L *lua.LState) int {
			L.Push(vecTable(L, checkRigidbody(L, 1).UpDirection()))
			return 1
		},
		"SetUpDirection": func(L *lua.LState) int {
			checkRigidbody(L, 1).SetUpDirection(vecArg(L, 2))
			return 0
		},
		"GetRightDirection": func(L *lua.LState) int {
			L.Push(vecTable(L, checkRigidbody(L, 1).RightDirection()))
			return 1
		},
		"SetRightDirection": func(L *lua.LState) int {
			checkRigidbody(L, 1).SetRightDirection(vecArg(L, 2))
			return 0
		},
	}
}
