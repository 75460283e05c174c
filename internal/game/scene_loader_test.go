package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
	"github.com/jack-chaudier/fr-ocean-engine/internal/physics"
	"github.com/jack-chaudier/fr-ocean-engine/internal/scripting"
)

type loaderFixture struct {
	core   *engine.Core
	host   *scripting.Host
	loader *SceneLoader
}

func newLoaderFixture(t *testing.T, files map[string]string) *loaderFixture {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"scenes", "actor_templates", "component_types"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	log := zap.NewNop()
	core := engine.NewCore(log)
	host := scripting.NewHost(dir, log)
	t.Cleanup(host.Close)
	world := physics.NewWorld(log)
	factory := NewFactory(host, world)
	core.Registry.SetFactory(factory)

	return &loaderFixture{
		core:   core,
		host:   host,
		loader: NewSceneLoader(dir, core.Registry, factory, log),
	}
}

const testMover = `
Mover = {
    speed = 1,
}
`

func TestLoadSceneCreatesActorsWithProps(t *testing.T) {
	f := newLoaderFixture(t, map[string]string{
		"component_types/Mover.lua": testMover,
		"scenes/test.scene": `{
			"actors": [
				{"name": "hero", "components": {"m1": {"type": "Mover", "speed": 7}}}
			]
		}`,
	})

	require.NoError(t, f.loader.Load("test"))

	hero := f.core.Registry.Find("hero")
	require.NotNil(t, hero)

	comp := hero.ComponentByKey("m1")
	require.NotNil(t, comp)
	inst := comp.(*scripting.Instance)
	assert.Equal(t, lua.LNumber(7), inst.Table().RawGetString("speed"))
}

func TestLoadSceneMissingIsResourceNotFound(t *testing.T) {
	f := newLoaderFixture(t, nil)
	err := f.loader.Load("ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrResourceNotFound))
}

func TestTemplateMergeOverridesProps(t *testing.T) {
	f := newLoaderFixture(t, map[string]string{
		"component_types/Mover.lua": testMover,
		"actor_templates/npc.template": `{
			"name": "npc",
			"components": {
				"m1": {"type": "Mover", "speed": 3},
				"m2": {"type": "Mover"}
			}
		}`,
		"scenes/town.scene": `{
			"actors": [
				{"name": "guard", "template": "npc", "components": {"m1": {"speed": 9}}}
			]
		}`,
	})

	require.NoError(t, f.loader.Load("town"))

	guard := f.core.Registry.Find("guard")
	require.NotNil(t, guard, "actor name override from scene must win")

	m1 := guard.ComponentByKey("m1").(*scripting.Instance)
	assert.Equal(t, lua.LNumber(9), m1.Table().RawGetString("speed"),
		"scene property override must win over template value")
	assert.NotNil(t, guard.ComponentByKey("m2"), "template-only components carry over")
}

func TestTemplateComponentTypeInheritedByOverride(t *testing.T) {
	f := newLoaderFixture(t, map[string]string{
		"component_types/Mover.lua": testMover,
		"actor_templates/npc.template": `{
			"name": "npc",
			"components": {"m1": {"type": "Mover", "speed": 3}}
		}`,
	})

	a, err := f.loader.Instantiate("npc")
	require.NoError(t, err)
	assert.Equal(t, "Mover", a.ComponentByKey("m1").TypeName())
}

func TestInstantiateDefersActivation(t *testing.T) {
	f := newLoaderFixture(t, map[string]string{
		"component_types/Mover.lua": testMover,
		"actor_templates/npc.template": `{
			"name": "npc",
			"components": {"m1": {"type": "Mover"}}
		}`,
	})

	a, err := f.loader.Instantiate("npc")
	require.NoError(t, err)

	assert.Equal(t, 0, f.core.Registry.Len(), "spawned actor joins the active list at the frame boundary")
	assert.NotNil(t, f.core.Registry.Find("npc"), "but is findable immediately")

	f.core.Registry.PromoteSpawned()
	assert.Equal(t, 1, f.core.Registry.Len())
	assert.Equal(t, a.ID(), f.core.Registry.Find("npc").ID())
}

func TestRigidbodyFactorySpecialCase(t *testing.T) {
	f := newLoaderFixture(t, map[string]string{
		"scenes/phys.scene": `{
			"actors": [
				{"name": "crate", "components": {
					"rb": {"type": "Rigidbody", "x": 2, "y": 3, "body_type": "static", "width": 2}
				}}
			]
		}`,
	})

	require.NoError(t, f.loader.Load("phys"))

	crate := f.core.Registry.Find("crate")
	require.NotNil(t, crate)

	rb, ok := crate.ComponentByKey("rb").(*physics.Rigidbody)
	require.True(t, ok)
	pos := rb.Position()
	assert.Equal(t, 2.0, pos.X)
	assert.Equal(t, 3.0, pos.Y)
	assert.Equal(t, "static", rb.BodyType)
	assert.Equal(t, 2.0, rb.Width)
}

func TestMissingComponentTypeFailsLoad(t *testing.T) {
	f := newLoaderFixture(t, map[string]string{
		"scenes/bad.scene": `{
			"actors": [
				{"name": "x", "components": {"c": {"type": "NoSuchBehavior"}}}
			]
		}`,
	})

	err := f.loader.Load("bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrResourceNotFound))
}
