package render

import (
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// Textures caches loaded image textures by name. A request for a missing
// image is an error the frame loop treats as fatal; there is no placeholder.
type Textures struct {
	log      *zap.Logger
	imageDir string
	cache    map[string]rl.Texture2D
}

func NewTextures(resourcesDir string, log *zap.Logger) *Textures {
	return &Textures{
		log:      log,
		imageDir: filepath.Join(resourcesDir, "images"),
		cache:    make(map[string]rl.Texture2D),
	}
}

// Get returns the texture for an image name, loading and caching it on first
// use. Textures must be fetched after the window is open.
func (t *Textures) Get(name string) (rl.Texture2D, error) {
	if tex, ok := t.cache[name]; ok {
		return tex, nil
	}

	path := filepath.Join(t.imageDir, name+".png")
	if _, err := os.Stat(path); err != nil {
		return rl.Texture2D{}, engine.ResourceNotFound("image", name)
	}

	tex := rl.LoadTexture(path)
	t.log.Debug("loaded texture",
		zap.String("image", name),
		zap.Int32("width", tex.Width),
		zap.Int32("height", tex.Height))
	t.cache[name] = tex
	return tex, nil
}

// Unload releases every cached texture. Call before closing the window.
func (t *Textures) Unload() {
	for name, tex := range t.cache {
		rl.UnloadTexture(tex)
		delete(t.cache, name)
	}
}
