package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// --- JSON types ---

type sceneFile struct {
	Actors []actorDef `json:"actors"`
}

type actorDef struct {
	Name     string `json:"name"`
	Template string `json:"template"`

	// Components maps instance key to a property table. The "type" entry
	// names the component type; an override of a template component may omit
	// it and inherit the template's type for that key.
	Components map[string]map[string]any `json:"components"`
}

// SceneLoader reads scene and actor-template JSON and instantiates actors
// through the registry. Templates are parsed once and cached.
type SceneLoader struct {
	log          *zap.Logger
	resourcesDir string
	registry     *engine.Registry
	factory      *Factory

	// OnAttach runs after each component is attached; the driver uses it to
	// give scripted instances their actor back-reference.
	OnAttach func(a *engine.Actor, comp engine.Component)

	templates map[string]*actorDef
}

func NewSceneLoader(resourcesDir string, registry *engine.Registry, factory *Factory, log *zap.Logger) *SceneLoader {
	return &SceneLoader{
		log:          log,
		resourcesDir: resourcesDir,
		registry:     registry,
		factory:      factory,
		templates:    make(map[string]*actorDef),
	}
}

// Load instantiates every actor a scene file declares. Actors enter the
// active list immediately (scene-load path, no creation-frame suppression).
func (l *SceneLoader) Load(sceneName string) error {
	path := filepath.Join(l.resourcesDir, "scenes", sceneName+".scene")
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.ResourceNotFound("scene", sceneName)
	}

	var scene sceneFile
	if err := json.Unmarshal(data, &scene); err != nil {
		return engine.ConfigError("parsing scene %q: %v", sceneName, err)
	}

	for i := range scene.Actors {
		if err := l.spawnFromDef(&scene.Actors[i], false); err != nil {
			return fmt.Errorf("scene %q: %w", sceneName, err)
		}
	}
	l.log.Info("scene loaded",
		zap.String("scene", sceneName),
		zap.Int("actors", len(scene.Actors)))
	return nil
}

// Instantiate creates an actor from a template at runtime. Insertion into the
// active list is deferred and its components are creation-frame suppressed.
func (l *SceneLoader) Instantiate(templateName string) (*engine.Actor, error) {
	def, err := l.template(templateName)
	if err != nil {
		return nil, err
	}
	return l.buildActor(def, nil, true)
}

func (l *SceneLoader) spawnFromDef(def *actorDef, runtime bool) error {
	base := def
	var overrides *actorDef
	if def.Template != "" {
		tpl, err := l.template(def.Template)
		if err != nil {
			return err
		}
		base = tpl
		overrides = def
	}
	_, err := l.buildActor(base, overrides, runtime)
	return err
}

// buildActor creates the actor and attaches merged components in sorted key
// order so sibling construction order is reproducible.
func (l *SceneLoader) buildActor(base, overrides *actorDef, runtime bool) (*engine.Actor, error) {
	name := base.Name
	if overrides != nil && overrides.Name != "" {
		name = overrides.Name
	}

	var a *engine.Actor
	if runtime {
		a = l.registry.Spawn(name)
	} else {
		a = l.registry.New(name)
	}

	merged := mergeComponents(base, overrides)
	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		props := merged[key]
		typeName, _ := props["type"].(string)
		if typeName == "" {
			return nil, engine.ConfigError("actor %q: component %q has no type", name, key)
		}
		comp, err := l.factory.Create(typeName, key)
		if err != nil {
			return nil, err
		}
		if applier, ok := comp.(propApplier); ok {
			applier.ApplyProps(stripType(props))
		}
		if err := l.registry.Attach(a, comp, runtime); err != nil {
			return nil, err
		}
		if l.OnAttach != nil {
			l.OnAttach(a, comp)
		}
	}
	return a, nil
}

func (l *SceneLoader) template(name string) (*actorDef, error) {
	if def, ok := l.templates[name]; ok {
		return def, nil
	}
	path := filepath.Join(l.resourcesDir, "actor_templates", name+".template")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, engine.ResourceNotFound("actor template", name)
	}
	var def actorDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, engine.ConfigError("parsing actor template %q: %v", name, err)
	}
	l.templates[name] = &def
	return &def, nil
}

// mergeComponents layers override property tables on top of the base ones.
// Overrides win per property; new keys in the override add components.
func mergeComponents(base, overrides *actorDef) map[string]map[string]any {
	merged := make(map[string]map[string]any, len(base.Components))
	for key, props := range base.Components {
		merged[key] = copyProps(props)
	}
	if overrides == nil {
		return merged
	}
	for key, props := range overrides.Components {
		target, ok := merged[key]
		if !ok {
			merged[key] = copyProps(props)
			continue
		}
		for name, value := range props {
			target[name] = value
		}
	}
	return merged
}

func copyProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for name, value := range props {
		out[name] = value
	}
	return out
}

func stripType(props map[string]any) map[string]any {
	out := copyProps(props)
	delete(out, "type")
	return out
}
