package physics

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// Rigidbody is the native physics component. Construction only records the
// declared properties; the Box2D body is created by Init once the owning
// actor is registered, so scene-file property overrides land first.
//
// Rotation is exposed in clockwise degrees; Box2D works in radians.
type Rigidbody struct {
	key string

	world *World
	body  *box2d.B2Body

	ownerID   uint64
	ownerName string

	// Declared state, authoritative until the body exists.
	X             float64
	Y             float64
	BodyType      string
	Precise       bool
	GravityScale  float64
	Density       float64
	AngularDamp   float64
	RotationDeg   float64
	HasCollider   bool
	ColliderType  string
	Width         float64
	Height        float64
	Radius        float64
	Friction      float64
	Bounciness    float64
	HasTrigger    bool
	TriggerType   string
	TriggerWidth  float64
	TriggerHeight float64
	TriggerRadius float64
	Layer         string
}

var _ engine.DeferredInit = (*Rigidbody)(nil)

// NewRigidbody returns a component with the stock property defaults.
func NewRigidbody(world *World, key string) *Rigidbody {
	return &Rigidbody{
		key:           key,
		world:         world,
		BodyType:      "dynamic",
		Precise:       true,
		GravityScale:  1.0,
		Density:       1.0,
		AngularDamp:   0.3,
		HasCollider:   true,
		ColliderType:  "box",
		Width:         1.0,
		Height:        1.0,
		Radius:        0.5,
		Friction:      0.3,
		Bounciness:    0.3,
		HasTrigger:    true,
		TriggerType:   "box",
		TriggerWidth:  1.0,
		TriggerHeight: 1.0,
		TriggerRadius: 0.5,
		Layer:         "default",
	}
}

func (rb *Rigidbody) Key() string      { return rb.key }
func (rb *Rigidbody) TypeName() string { return "Rigidbody" }

// ApplyProps overrides declared properties from a decoded JSON table. Unknown
// names are ignored so scripted and native components share scene syntax.
func (rb *Rigidbody) ApplyProps(props map[string]any) {
	for name, v := range props {
		switch name {
		case "x":
			rb.X = toFloat(v, rb.X)
		case "y":
			rb.Y = toFloat(v, rb.Y)
		case "body_type":
			rb.BodyType = toString(v, rb.BodyType)
		case "precise":
			rb.Precise = toBool(v, rb.Precise)
		case "gravity_scale":
			rb.GravityScale = toFloat(v, rb.GravityScale)
		case "density":
			rb.Density = toFloat(v, rb.Density)
		case "angular_friction":
			rb.AngularDamp = toFloat(v, rb.AngularDamp)
		case "rotation":
			rb.RotationDeg = toFloat(v, rb.RotationDeg)
		case "has_collider":
			rb.HasCollider = toBool(v, rb.HasCollider)
		case "collider_type":
			rb.ColliderType = toString(v, rb.ColliderType)
		case "width":
			rb.Width = toFloat(v, rb.Width)
		case "height":
			rb.Height = toFloat(v, rb.Height)
		case "radius":
			rb.Radius = toFloat(v, rb.Radius)
		case "friction":
			rb.Friction = toFloat(v, rb.Friction)
		case "bounciness":
			rb.Bounciness = toFloat(v, rb.Bounciness)
		case "has_trigger":
			rb.HasTrigger = toBool(v, rb.HasTrigger)
		case "trigger_type":
			rb.TriggerType = toString(v, rb.TriggerType)
		case "trigger_width":
			rb.TriggerWidth = toFloat(v, rb.TriggerWidth)
		case "trigger_height":
			rb.TriggerHeight = toFloat(v, rb.TriggerHeight)
		case "trigger_radius":
			rb.TriggerRadius = toFloat(v, rb.TriggerRadius)
		case "layer":
			rb.Layer = toString(v, rb.Layer)
		}
	}
}

// Init creates the Box2D body and its fixtures for the owning actor.
func (rb *Rigidbody) Init(owner *engine.Actor) error {
	if rb.body != nil {
		return nil
	}
	rb.ownerID = owner.ID()
	rb.ownerName = owner.Name

	def := box2d.MakeB2BodyDef()
	def.Position.Set(rb.X, rb.Y)
	def.Angle = degToRad(rb.RotationDeg)
	def.AngularDamping = rb.AngularDamp
	def.GravityScale = rb.GravityScale
	def.Bullet = rb.Precise

	switch rb.BodyType {
	case "dynamic":
		def.Type = box2d.B2BodyType.B2_dynamicBody
	case "static":
		def.Type = box2d.B2BodyType.B2_staticBody
	case "kinematic":
		def.Type = box2d.B2BodyType.B2_kinematicBody
	default:
		return fmt.Errorf("%w: rigidbody %q on actor %q: unknown body_type %q",
			engine.ErrPhysics, rb.key, owner.Name, rb.BodyType)
	}

	rb.body = rb.world.createBody(&def)
	rb.body.SetUserData(rb)
	return rb.createFixtures()
}

func (rb *Rigidbody) createFixtures() error {
	if rb.HasCollider {
		if err := rb.addFixture(rb.ColliderType, rb.Width, rb.Height, rb.Radius, false); err != nil {
			return err
		}
	}
	if rb.HasTrigger {
		if err := rb.addFixture(rb.TriggerType, rb.TriggerWidth, rb.TriggerHeight, rb.TriggerRadius, true); err != nil {
			return err
		}
	}
	if !rb.HasCollider && !rb.HasTrigger {
		// Phantom sensor keeps mass and dynamics sane without reporting
		// contacts. No user data so the listener skips it.
		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBox(rb.Width/2, rb.Height/2)
		fd := box2d.MakeB2FixtureDef()
		fd.Shape = &shape
		fd.Density = rb.Density
		fd.IsSensor = true
		rb.body.CreateFixtureFromDef(&fd)
	}
	return nil
}

func (rb *Rigidbody) addFixture(shapeType string, width, height, radius float64, sensor bool) error {
	fd := box2d.MakeB2FixtureDef()
	fd.Density = rb.Density
	fd.IsSensor = sensor
	fd.UserData = rb
	fd.Filter.CategoryBits = rb.world.layers.CategoryBits(rb.Layer)
	fd.Filter.MaskBits = rb.world.layers.MaskBits(rb.Layer)
	if !sensor {
		fd.Friction = rb.Friction
		fd.Restitution = rb.Bounciness
	}

	switch shapeType {
	case "box":
		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBox(width/2, height/2)
		fd.Shape = &shape
	case "circle":
		shape := box2d.MakeB2CircleShape()
		shape.M_radius = radius
		fd.Shape = &shape
	default:
		return fmt.Errorf("%w: rigidbody %q on actor %q: unknown shape type %q",
			engine.ErrPhysics, rb.key, rb.ownerName, shapeType)
	}

	rb.body.CreateFixtureFromDef(&fd)
	return nil
}

// RecreateFixtures rebuilds all fixtures from the declared properties while
// preserving the body's transform and velocities. Used when a script changes
// shape or layer after initialization.
func (rb *Rigidbody) RecreateFixtures() error {
	if rb.body == nil {
		return nil
	}
	for f := rb.body.GetFixtureList(); f != nil; {
		next := f.GetNext()
		rb.body.DestroyFixture(f)
		f = next
	}
	return rb.createFixtures()
}

// Destroy removes the body from the world. Safe before Init and when called
// twice.
func (rb *Rigidbody) Destroy() {
	if rb.body == nil {
		return
	}
	rb.world.destroyBody(rb.body)
	rb.body = nil
}

// Position returns the body position, or the declared one before Init.
func (rb *Rigidbody) Position() Vec2 {
	if rb.body == nil {
		return Vec2{X: rb.X, Y: rb.Y}
	}
	p := rb.body.GetPosition()
	return Vec2{X: p.X, Y: p.Y}
}

func (rb *Rigidbody) SetPosition(pos Vec2) {
	rb.X, rb.Y = pos.X, pos.Y
	if rb.body != nil {
		rb.body.SetTransform(box2d.MakeB2Vec2(pos.X, pos.Y), rb.body.GetAngle())
	}
}

// Rotation returns the clockwise rotation in degrees.
func (rb *Rigidbody) Rotation() float64 {
	if rb.body == nil {
		return rb.RotationDeg
	}
	return radToDeg(rb.body.GetAngle())
}

func (rb *Rigidbody) SetRotation(degrees float64) {
	rb.RotationDeg = degrees
	if rb.body != nil {
		rb.body.SetTransform(rb.body.GetPosition(), degToRad(degrees))
	}
}

func (rb *Rigidbody) Velocity() Vec2 {
	if rb.body == nil {
		return Vec2{}
	}
	v := rb.body.GetLinearVelocity()
	return Vec2{X: v.X, Y: v.Y}
}

func (rb *Rigidbody) SetVelocity(v Vec2) {
	if rb.body != nil {
		rb.body.SetLinearVelocity(box2d.MakeB2Vec2(v.X, v.Y))
	}
}

func (rb *Rigidbody) AngularVelocity() float64 {
	if rb.body == nil {
		return 0
	}
	return radToDeg(rb.body.GetAngularVelocity())
}

func (rb *Rigidbody) SetAngularVelocity(degreesPerSec float64) {
	if rb.body != nil {
		rb.body.SetAngularVelocity(degToRad(degreesPerSec))
	}
}

func (rb *Rigidbody) AddForce(f Vec2) {
	if rb.body != nil {
		rb.body.ApplyForceToCenter(box2d.MakeB2Vec2(f.X, f.Y), true)
	}
}

func (rb *Rigidbody) SetGravityScale(scale float64) {
	rb.GravityScale = scale
	if rb.body != nil {
		rb.body.SetGravityScale(scale)
	}
}

// UpDirection returns the body's local up vector (negative y at rest).
func (rb *Rigidbody) UpDirection() Vec2 {
	a := degToRad(rb.Rotation()) - math.Pi/2
	v := Vec2{X: math.Cos(a), Y: math.Sin(a)}
	return normalize(v)
}

// SetUpDirection rotates the body so its up vector points along dir.
func (rb *Rigidbody) SetUpDirection(dir Vec2) {
	d := normalize(dir)
	rb.SetRotation(radToDeg(math.Atan2(d.Y, d.X) + math.Pi/2))
}

// RightDirection returns the body's local right vector (positive x at rest).
func (rb *Rigidbody) RightDirection() Vec2 {
	a := degToRad(rb.Rotation())
	return normalize(Vec2{X: math.Cos(a), Y: math.Sin(a)})
}

// SetRightDirection rotates the body so its right vector points along dir.
func (rb *Rigidbody) SetRightDirection(dir Vec2) {
	d := normalize(dir)
	rb.SetRotation(radToDeg(math.Atan2(d.Y, d.X)))
}

// OwnerID is the id of the actor the body belongs to.
func (rb *Rigidbody) OwnerID() uint64 { return rb.ownerID }

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }
func radToDeg(rad float64) float64 { return rad * (180.0 / math.Pi) }

func normalize(v Vec2) Vec2 {
	length := math.Hypot(v.X, v.Y)
	if length == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

func toFloat(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return fallback
	}
}

func toString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func toBool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}
