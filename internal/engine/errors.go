package engine

import (
	"errors"
	"fmt"
)

// Error categories. Everything fatal wraps one of these so the top level can
// classify faults with errors.Is before exiting. Script errors are the one
// recoverable category: they are consumed at the dispatch boundary and never
// propagate out of the frame loop.
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrResourceNotFound = errors.New("resource not found")
	ErrScript           = errors.New("script error")
	ErrRender           = errors.New("render error")
	ErrAudio            = errors.New("audio error")
	ErrPhysics          = errors.New("physics error")
)

// ResourceNotFound builds the fatal error used for any named asset (scene,
// template, image, font, audio clip, component type) missing at runtime.
func ResourceNotFound(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrResourceNotFound, kind, name)
}

// ConfigError wraps a startup configuration failure.
func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// ScriptError wraps an error raised inside a scripted callback with the slot
// that raised it. Callers attach the owning actor when logging.
func ScriptError(slot string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrScript, slot, err)
}
