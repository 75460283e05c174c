package game

import (
	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
	"github.com/jack-chaudier/fr-ocean-engine/internal/physics"
	"github.com/jack-chaudier/fr-ocean-engine/internal/scripting"
)

// Factory creates component instances for (type, key) pairs. Rigidbody is the
// one native type; every other name resolves to a Lua component prototype.
type Factory struct {
	host  *scripting.Host
	world *physics.World
}

func NewFactory(host *scripting.Host, world *physics.World) *Factory {
	return &Factory{host: host, world: world}
}

var _ engine.ComponentFactory = (*Factory)(nil)

func (f *Factory) Create(typeName, key string) (engine.Component, error) {
	if typeName == "Rigidbody" {
		return physics.NewRigidbody(f.world, key), nil
	}
	return f.host.NewInstance(typeName, key)
}

// propApplier is satisfied by both scripted instances and rigidbodies;
// scene and template property tables are applied through it.
type propApplier interface {
	ApplyProps(props map[string]any)
}
