// Package game wires every subsystem together and runs the frame loop. It is
// the only package that knows about all of engine, scripting, render, physics,
// input and audio at once.
package game

import (
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/audio"
	"github.com/jack-chaudier/fr-ocean-engine/internal/config"
	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
	"github.com/jack-chaudier/fr-ocean-engine/internal/input"
	"github.com/jack-chaudier/fr-ocean-engine/internal/physics"
	"github.com/jack-chaudier/fr-ocean-engine/internal/render"
	"github.com/jack-chaudier/fr-ocean-engine/internal/scripting"
)

// Game owns the subsystems and drives the per-frame sequence. Single-threaded:
// every callback runs to completion before the next fires.
type Game struct {
	log *zap.Logger
	cfg *config.Config

	core     *engine.Core
	host     *scripting.Host
	world    *physics.World
	renderer *render.Renderer
	input    *input.Input
	mixer    *audio.Mixer

	factory *Factory
	loader  *SceneLoader

	currentScene string
	pendingScene string

	quit     bool
	fatalErr error
}

func New(cfg *config.Config, log *zap.Logger) *Game {
	g := &Game{
		log:   log,
		cfg:   cfg,
		core:  engine.NewCore(log),
		host:  scripting.NewHost(cfg.ResourcesDir, log),
		world: physics.NewWorld(log),
		input: input.New(),
	}

	g.renderer = render.NewRenderer(
		cfg.Game.Title,
		cfg.Rendering.Width, cfg.Rendering.Height,
		render.RGBA{
			R: render.ClampChannel(float64(cfg.Rendering.ClearR)),
			G: render.ClampChannel(float64(cfg.Rendering.ClearG)),
			B: render.ClampChannel(float64(cfg.Rendering.ClearB)),
			A: 255,
		},
		cfg.ResourcesDir, log)

	g.factory = NewFactory(g.host, g.world)
	g.core.Registry.SetFactory(g.factory)
	g.loader = NewSceneLoader(cfg.ResourcesDir, g.core.Registry, g.factory, log)
	g.loader.OnAttach = g.injectActorRef

	g.world.SetContactHandler(g.dispatchContact)
	g.registerBindings()
	return g
}

// Run opens the window and drives frames until a quit request, window close
// or fatal error. The returned error is nil on a normal quit.
func (g *Game) Run() error {
	g.renderer.Open()
	defer g.renderer.Close()

	g.mixer = audio.NewMixer(g.cfg.ResourcesDir, g.log)
	defer g.mixer.Close()

	if err := g.switchScene(g.cfg.Game.InitialScene); err != nil {
		return err
	}

	for !g.quit && !g.renderer.ShouldClose() {
		if err := g.frame(); err != nil {
			return err
		}
	}
	g.log.Info("normal quit", zap.Uint64("frames", g.core.Clock.Frame()))
	return nil
}

// frame runs one iteration of the fixed per-frame sequence. The order is a
// contract scripts rely on; do not reorder.
func (g *Game) frame() error {
	g.input.BeginFrame()

	if g.pendingScene != "" {
		scene := g.pendingScene
		g.pendingScene = ""
		if err := g.switchScene(scene); err != nil {
			return err
		}
	}

	g.core.Clock.Tick()
	dt := g.core.Clock.Delta()
	g.core.Timers.Tick(dt)
	g.core.Tweens.Tick(dt)

	g.core.Scheduler.DispatchStart()
	g.core.Registry.InitDeferred()
	g.core.Scheduler.DispatchUpdate()

	// Contact callbacks dispatch synchronously from inside the step,
	// strictly between update and late-update.
	g.world.Step()

	g.core.Scheduler.DispatchLateUpdate()

	g.core.Registry.RemoveMarkedComponents()
	g.core.Registry.ReconcileDestroyed()
	g.core.Registry.PromoteSpawned()

	g.mixer.Update()

	if err := g.renderer.Flush(); err != nil {
		return err
	}
	g.input.EndFrame()

	return g.fatalErr
}

// switchScene tears down non-persistent actors and loads the named scene.
func (g *Game) switchScene(name string) error {
	g.core.ClearTransient()
	g.core.Registry.ClearForSceneChange()
	if err := g.loader.Load(name); err != nil {
		return err
	}
	g.core.Registry.Rebuild()
	g.currentScene = name
	g.log.Debug("scene active", zap.String("scene", name))
	return nil
}

// dispatchContact translates one physics contact event into scripted callback
// dispatches on both participants, through the scheduler's fault-isolation
// path.
func (g *Game) dispatchContact(event physics.ContactEvent) {
	slot := contactSlot(event)
	g.core.Scheduler.DispatchSlot(event.ActorA, slot, g.contactArg(event, event.ActorB))
	g.core.Scheduler.DispatchSlot(event.ActorB, slot, g.contactArg(event, event.ActorA))
}

func contactSlot(event physics.ContactEvent) string {
	if event.IsTrigger() {
		switch event.Phase {
		case physics.PhaseEnter:
			return engine.SlotTriggerEnter
		case physics.PhaseStay:
			return engine.SlotTriggerStay
		default:
			return engine.SlotTriggerExit
		}
	}
	switch event.Phase {
	case physics.PhaseEnter:
		return engine.SlotCollisionEnter
	case physics.PhaseStay:
		return engine.SlotCollisionStay
	default:
		return engine.SlotCollisionExit
	}
}

// contactArg builds the collision table a callback receives: the other
// participant plus contact geometry (sentinel values outside collision-enter).
func (g *Game) contactArg(event physics.ContactEvent, otherID uint64) lua.LValue {
	L := g.host.State()
	t := L.NewTable()
	t.RawSetString("other", g.wrapActor(otherID))
	t.RawSetString("point", vecTable(L, event.Point))
	t.RawSetString("normal", vecTable(L, event.Normal))
	t.RawSetString("relative_velocity", vecTable(L, event.RelativeVelocity))
	return t
}

// fail records a fatal error surfaced from inside a script-driven binding;
// the frame loop returns it at the end of the current frame.
func (g *Game) fail(err error) {
	if g.fatalErr == nil {
		g.fatalErr = err
	}
}

func sleepMilliseconds(ms int) {
	if ms > 0 {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
}
