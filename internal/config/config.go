// Package config loads the two JSON configuration files a game ships in its
// resources directory: game.config (identity and entry scene) and
// rendering.config (window and clear color, optional).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// Defaults applied when rendering.config is absent or partial.
const (
	DefaultWindowWidth  = 640
	DefaultWindowHeight = 360
)

// Game is the decoded game.config. InitialScene is required; the engine has
// nothing to run without it.
type Game struct {
	Title        string `json:"game_title"`
	InitialScene string `json:"initial_scene"`
}

// Rendering is the decoded rendering.config.
type Rendering struct {
	Width  int `json:"x_resolution"`
	Height int `json:"y_resolution"`

	ClearR int `json:"clear_color_r"`
	ClearG int `json:"clear_color_g"`
	ClearB int `json:"clear_color_b"`
}

// Config is everything the driver needs before opening a window.
type Config struct {
	ResourcesDir string
	Game         Game
	Rendering    Rendering
}

// Load validates the resources directory and reads both config files.
// rendering.config may be missing; game.config may not.
func Load(resourcesDir string) (*Config, error) {
	info, err := os.Stat(resourcesDir)
	if err != nil || !info.IsDir() {
		return nil, engine.ConfigError("resources directory %q missing", resourcesDir)
	}

	cfg := &Config{
		ResourcesDir: resourcesDir,
		Rendering: Rendering{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			ClearR: 255,
			ClearG: 255,
			ClearB: 255,
		},
	}

	gamePath := filepath.Join(resourcesDir, "game.config")
	if err := decodeInto(gamePath, &cfg.Game); err != nil {
		return nil, err
	}
	if cfg.Game.InitialScene == "" {
		return nil, engine.ConfigError("game.config: initial_scene is required")
	}

	renderPath := filepath.Join(resourcesDir, "rendering.config")
	if _, err := os.Stat(renderPath); err == nil {
		if err := decodeInto(renderPath, &cfg.Rendering); err != nil {
			return nil, err
		}
	}
	if cfg.Rendering.Width <= 0 || cfg.Rendering.Height <= 0 {
		return nil, engine.ConfigError("rendering.config: resolution must be positive, got %dx%d",
			cfg.Rendering.Width, cfg.Rendering.Height)
	}

	return cfg, nil
}

func decodeInto(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.ConfigError("reading %s: %v", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return engine.ConfigError("parsing %s: %v", filepath.Base(path), err)
	}
	return nil
}
