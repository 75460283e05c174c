// Package physics wraps an external fixed-step rigid-body simulation (Box2D)
// as an opaque stepped world. It translates contact notifications into
// collision/trigger callback dispatches and answers synchronous ray queries;
// body dynamics themselves belong to the library.
package physics

import (
	"github.com/ByteArena/box2d"
	"go.uber.org/zap"
)

// Vec2 is the bridge's value type for positions, velocities and directions.
type Vec2 struct {
	X float64
	Y float64
}

// Default stepping parameters, matching a 60 Hz simulation.
const (
	DefaultTimestep           = 1.0 / 60.0
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3
)

// ContactHandler receives translated contact events synchronously during
// Step. The game layer wires it to the scheduler's dispatch path.
type ContactHandler func(event ContactEvent)

// World owns the Box2D world and the bookkeeping needed to synthesize
// per-step Stay events from begin/end notifications.
type World struct {
	log    *zap.Logger
	world  box2d.B2World
	layers *Layers

	handler ContactHandler
	active  map[contactPair]contactKind

	timestep float64
	velIters int
	posIters int
}

func NewWorld(log *zap.Logger) *World {
	w := &World{
		log:      log,
		world:    box2d.MakeB2World(box2d.MakeB2Vec2(0.0, 9.8)),
		layers:   NewLayers(log),
		active:   make(map[contactPair]contactKind),
		timestep: DefaultTimestep,
		velIters: DefaultVelocityIterations,
		posIters: DefaultPositionIterations,
	}
	w.world.SetContactListener(&contactListener{world: w})
	return w
}

// Layers exposes the named collision-layer filter table.
func (w *World) Layers() *Layers { return w.layers }

// SetContactHandler wires the callback invoked for every translated contact
// event. Must be set before the first Step.
func (w *World) SetContactHandler(h ContactHandler) { w.handler = h }

// SetTimestep overrides the fixed step length in seconds.
func (w *World) SetTimestep(dt float64) {
	if dt > 0 {
		w.timestep = dt
	}
}

// SetIterations overrides the solver iteration counts.
func (w *World) SetIterations(velocity, position int) {
	w.velIters = velocity
	w.posIters = position
}

// Step advances the simulation one fixed step. Begin/end contact events fire
// synchronously inside the step; Stay events for still-touching pairs fire
// immediately after, still within the physics phase.
func (w *World) Step() {
	w.world.Step(w.timestep, w.velIters, w.posIters)
	w.emitStays()
}

func (w *World) emitStays() {
	if w.handler == nil {
		return
	}
	for pair, kind := range w.active {
		w.handler(ContactEvent{
			ActorA: pair.a,
			ActorB: pair.b,
			Kind:   kind,
			Phase:  PhaseStay,
			Point:  SentinelVec,
			Normal: SentinelVec,
		})
	}
}

func (w *World) createBody(def *box2d.B2BodyDef) *box2d.B2Body {
	return w.world.CreateBody(def)
}

func (w *World) destroyBody(body *box2d.B2Body) {
	if body == nil {
		return
	}
	// Drop any live contact pairs involving the body so no Stay event
	// references a destroyed actor.
	if rb, ok := body.GetUserData().(*Rigidbody); ok && rb != nil {
		for pair := range w.active {
			if pair.a == rb.ownerID || pair.b == rb.ownerID {
				delete(w.active, pair)
			}
		}
	}
	w.world.DestroyBody(body)
}
