package physics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStockLayersCollideByDefault(t *testing.T) {
	l := NewLayers(zap.NewNop())

	player := l.CategoryBits("player")
	wall := l.MaskBits("wall")
	assert.NotZero(t, player&wall, "player and wall must interact")
}

func TestStockBulletRules(t *testing.T) {
	l := NewLayers(zap.NewNop())

	assert.Zero(t, l.CategoryBits("player")&l.MaskBits("player_bullet"),
		"player bullets must not hit the player")
	assert.Zero(t, l.CategoryBits("enemy")&l.MaskBits("enemy_bullet"),
		"enemy bullets must not hit enemies")
	assert.NotZero(t, l.CategoryBits("enemy")&l.MaskBits("player_bullet"),
		"player bullets must hit enemies")
}

func TestSetLayerCollisionIsSymmetric(t *testing.T) {
	l := NewLayers(zap.NewNop())

	require.NoError(t, l.SetLayerCollision("player", "enemy", false))
	assert.Zero(t, l.CategoryBits("player")&l.MaskBits("enemy"))
	assert.Zero(t, l.CategoryBits("enemy")&l.MaskBits("player"))

	require.NoError(t, l.SetLayerCollision("player", "enemy", true))
	assert.NotZero(t, l.CategoryBits("player")&l.MaskBits("enemy"))
	assert.NotZero(t, l.CategoryBits("enemy")&l.MaskBits("player"))
}

func TestDefineLayerCapacity(t *testing.T) {
	l := NewLayers(zap.NewNop())

	// 8 stock layers leave 8 free slots.
	for i := 0; i < 8; i++ {
		require.NoError(t, l.DefineLayer(fmt.Sprintf("custom%d", i)))
	}
	assert.Error(t, l.DefineLayer("one_too_many"))

	// Redefinition of an existing name stays a no-op even at capacity.
	assert.NoError(t, l.DefineLayer("custom3"))
}

func TestUnknownLayerFallsBackToDefault(t *testing.T) {
	l := NewLayers(zap.NewNop())
	assert.Equal(t, l.CategoryBits("default"), l.CategoryBits("no_such_layer"))
	assert.Error(t, l.SetLayerCollision("default", "no_such_layer", false))
}

func TestDistinctCategoryBits(t *testing.T) {
	l := NewLayers(zap.NewNop())
	seen := map[uint16]string{}
	for _, name := range []string{"default", "player", "enemy", "wall", "item"} {
		bits := l.CategoryBits(name)
		prev, dup := seen[bits]
		require.False(t, dup, "%s and %s share category bits", name, prev)
		seen[bits] = name
	}
}
