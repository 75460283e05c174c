package physics

import "github.com/ByteArena/box2d"

// ContactPhase distinguishes begin, per-step persist, and end notifications.
type ContactPhase int

const (
	PhaseEnter ContactPhase = iota
	PhaseStay
	PhaseExit
)

type contactKind int

const (
	kindCollision contactKind = iota
	kindTrigger
)

// SentinelVec marks contact fields that carry no meaningful value for the
// given phase (stay/exit notifications, trigger points).
var SentinelVec = Vec2{X: -999, Y: -999}

// ContactEvent is one translated contact notification. Kind selects between
// the OnCollision* and OnTrigger* callback families.
type ContactEvent struct {
	ActorA uint64
	ActorB uint64
	Kind   contactKind
	Phase  ContactPhase

	Point            Vec2
	Normal           Vec2
	RelativeVelocity Vec2
}

// IsTrigger reports whether the event belongs to the trigger callback family.
func (e ContactEvent) IsTrigger() bool { return e.Kind == kindTrigger }

type contactPair struct {
	a uint64
	b uint64
}

// contactListener receives raw Box2D notifications during Step and forwards
// translated events to the world's handler. Mixed sensor/solid fixture pairs
// are ignored: collisions are solid-vs-solid, triggers sensor-vs-sensor.
type contactListener struct {
	world *World
}

func (l *contactListener) BeginContact(contact box2d.B2ContactInterface) {
	rbA, rbB, kind, ok := classify(contact)
	if !ok {
		return
	}

	event := ContactEvent{
		ActorA: rbA.ownerID,
		ActorB: rbB.ownerID,
		Kind:   kind,
		Phase:  PhaseEnter,
		Point:  SentinelVec,
		Normal: SentinelVec,
		RelativeVelocity: relativeVelocity(
			contact.GetFixtureA().GetBody(),
			contact.GetFixtureB().GetBody()),
	}
	if kind == kindCollision {
		var manifold box2d.B2WorldManifold
		contact.GetWorldManifold(&manifold)
		event.Point = Vec2{X: manifold.Points[0].X, Y: manifold.Points[0].Y}
		event.Normal = Vec2{X: manifold.Normal.X, Y: manifold.Normal.Y}
	}

	l.world.active[contactPair{a: rbA.ownerID, b: rbB.ownerID}] = kind
	if l.world.handler != nil {
		l.world.handler(event)
	}
}

func (l *contactListener) EndContact(contact box2d.B2ContactInterface) {
	rbA, rbB, kind, ok := classify(contact)
	if !ok {
		return
	}

	delete(l.world.active, contactPair{a: rbA.ownerID, b: rbB.ownerID})
	if l.world.handler != nil {
		l.world.handler(ContactEvent{
			ActorA: rbA.ownerID,
			ActorB: rbB.ownerID,
			Kind:   kind,
			Phase:  PhaseExit,
			Point:  SentinelVec,
			Normal: SentinelVec,
		})
	}
}

func (l *contactListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
}

func (l *contactListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
}

// classify resolves both fixtures' rigidbodies and the callback family.
// Returns ok=false for fixtures without engine user data or mixed pairs.
func classify(contact box2d.B2ContactInterface) (rbA, rbB *Rigidbody, kind contactKind, ok bool) {
	fixA := contact.GetFixtureA()
	fixB := contact.GetFixtureB()

	rbA, okA := fixA.GetUserData().(*Rigidbody)
	rbB, okB := fixB.GetUserData().(*Rigidbody)
	if !okA || !okB || rbA == nil || rbB == nil {
		return nil, nil, 0, false
	}

	sensorA := fixA.IsSensor()
	sensorB := fixB.IsSensor()
	switch {
	case sensorA && sensorB:
		return rbA, rbB, kindTrigger, true
	case !sensorA && !sensorB:
		return rbA, rbB, kindCollision, true
	default:
		return nil, nil, 0, false
	}
}

func relativeVelocity(bodyA, bodyB *box2d.B2Body) Vec2 {
	va := bodyA.GetLinearVelocity()
	vb := bodyB.GetLinearVelocity()
	return Vec2{X: va.X - vb.X, Y: va.Y - vb.Y}
}
