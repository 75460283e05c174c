package render

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// Fonts caches loaded fonts by name and point size. Each size is its own
// rasterization; missing font files are fatal like missing images.
type Fonts struct {
	log     *zap.Logger
	fontDir string
	cache   map[string]rl.Font
}

func NewFonts(resourcesDir string, log *zap.Logger) *Fonts {
	return &Fonts{
		log:     log,
		fontDir: filepath.Join(resourcesDir, "fonts"),
		cache:   make(map[string]rl.Font),
	}
}

// Get returns the font rasterized at the given size, loading it on first use.
func (f *Fonts) Get(name string, size int) (rl.Font, error) {
	key := fmt.Sprintf("%s@%d", name, size)
	if font, ok := f.cache[key]; ok {
		return font, nil
	}

	path := filepath.Join(f.fontDir, name+".ttf")
	if _, err := os.Stat(path); err != nil {
		return rl.Font{}, engine.ResourceNotFound("font", name)
	}

	font := rl.LoadFontEx(path, int32(size), nil)
	f.log.Debug("loaded font", zap.String("font", name), zap.Int("size", size))
	f.cache[key] = font
	return font, nil
}

// Unload releases every cached font. Call before closing the window.
func (f *Fonts) Unload() {
	for key, font := range f.cache {
		rl.UnloadFont(font)
		delete(f.cache, key)
	}
}
