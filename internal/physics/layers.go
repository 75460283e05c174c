package physics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// MaxLayers is the number of named collision layers, bounded by the 16-bit
// category/mask filter words Box2D fixtures carry.
const MaxLayers = 16

// Layers maps layer names to filter bits and tracks which layer pairs are
// allowed to interact. Fixtures snapshot their bits at creation; changing a
// rule afterwards only affects fixtures created (or recreated) later.
type Layers struct {
	log   *zap.Logger
	slots map[string]uint
	masks [MaxLayers]uint16
	count uint
}

func NewLayers(log *zap.Logger) *Layers {
	l := &Layers{
		log:   log,
		slots: make(map[string]uint),
	}
	for i := range l.masks {
		l.masks[i] = 0xFFFF
	}

	// Stock layers and rules; games redefine them from scripts.
	for _, name := range []string{
		"default", "player", "enemy",
		"player_bullet", "enemy_bullet",
		"wall", "item", "trigger",
	} {
		if err := l.DefineLayer(name); err != nil {
			panic(err) // unreachable: fewer than MaxLayers stock names
		}
	}
	l.mustSet("player", "player_bullet", false)
	l.mustSet("player_bullet", "player_bullet", false)
	l.mustSet("enemy", "enemy_bullet", false)
	l.mustSet("enemy_bullet", "enemy_bullet", false)
	l.mustSet("item", "player_bullet", false)
	l.mustSet("item", "enemy_bullet", false)
	return l
}

// DefineLayer reserves a slot for a new layer name. Redefining an existing
// name is a no-op.
func (l *Layers) DefineLayer(name string) error {
	if _, ok := l.slots[name]; ok {
		return nil
	}
	if l.count >= MaxLayers {
		return fmt.Errorf("%w: collision layer table full (%d layers), cannot define %q",
			engine.ErrPhysics, MaxLayers, name)
	}
	l.slots[name] = l.count
	l.count++
	return nil
}

// SetLayerCollision enables or disables interaction between two layers.
// The rule is symmetric.
func (l *Layers) SetLayerCollision(a, b string, collide bool) error {
	slotA, okA := l.slots[a]
	slotB, okB := l.slots[b]
	if !okA {
		return fmt.Errorf("%w: unknown collision layer %q", engine.ErrPhysics, a)
	}
	if !okB {
		return fmt.Errorf("%w: unknown collision layer %q", engine.ErrPhysics, b)
	}
	bitA := uint16(1) << slotA
	bitB := uint16(1) << slotB
	if collide {
		l.masks[slotA] |= bitB
		l.masks[slotB] |= bitA
	} else {
		l.masks[slotA] &^= bitB
		l.masks[slotB] &^= bitA
	}
	return nil
}

// CategoryBits returns the filter category for a layer name. Unknown names
// fall back to the default layer with a warning.
func (l *Layers) CategoryBits(name string) uint16 {
	slot, ok := l.slots[name]
	if !ok {
		l.log.Warn("unknown collision layer, using default", zap.String("layer", name))
		slot = l.slots["default"]
	}
	return uint16(1) << slot
}

// MaskBits returns the filter mask for a layer name. Unknown names fall back
// to the default layer.
func (l *Layers) MaskBits(name string) uint16 {
	slot, ok := l.slots[name]
	if !ok {
		slot = l.slots["default"]
	}
	return l.masks[slot]
}

func (l *Layers) mustSet(a, b string, collide bool) {
	if err := l.SetLayerCollision(a, b, collide); err != nil {
		panic(err)
	}
}
