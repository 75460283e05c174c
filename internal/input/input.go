package input

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Input owns the per-frame keyboard and mouse snapshot. BeginFrame polls the
// window once; every query during the frame sees the same snapshot, so a
// script reading a key twice in one callback cannot observe two values.
type Input struct {
	keys  map[string]ButtonState
	mouse map[int]ButtonState

	mouseX float64
	mouseY float64
	scroll float64
}

func New() *Input {
	in := &Input{
		keys:  make(map[string]ButtonState, len(keyCodes)),
		mouse: make(map[int]ButtonState, len(mouseButtons)),
	}
	for name := range keyCodes {
		in.keys[name] = StateUp
	}
	for button := range mouseButtons {
		in.mouse[button] = StateUp
	}
	return in
}

// BeginFrame polls the device state and advances every button's state
// machine. Called once per frame before any script dispatch.
func (in *Input) BeginFrame() {
	for name, code := range keyCodes {
		in.keys[name] = advance(in.keys[name], rl.IsKeyDown(code))
	}
	for button, code := range mouseButtons {
		in.mouse[button] = advance(in.mouse[button], rl.IsMouseButtonDown(code))
	}
	pos := rl.GetMousePosition()
	in.mouseX = float64(pos.X)
	in.mouseY = float64(pos.Y)
	in.scroll = float64(rl.GetMouseWheelMove())
}

// EndFrame decays one-frame states so Just* reads are false if BeginFrame is
// skipped (headless tests, paused loop).
func (in *Input) EndFrame() {
	for name, s := range in.keys {
		switch s {
		case StateJustDown:
			in.keys[name] = StateDown
		case StateJustUp:
			in.keys[name] = StateUp
		}
	}
	for button, s := range in.mouse {
		switch s {
		case StateJustDown:
			in.mouse[button] = StateDown
		case StateJustUp:
			in.mouse[button] = StateUp
		}
	}
	in.scroll = 0
}

// Key reports whether the named key is held (including the press frame).
func (in *Input) Key(name string) bool { return isPressed(in.keys[name]) }

// KeyDown reports whether the named key was pressed this frame.
func (in *Input) KeyDown(name string) bool { return isJustDown(in.keys[name]) }

// KeyUp reports whether the named key was released this frame.
func (in *Input) KeyUp(name string) bool { return isJustUp(in.keys[name]) }

// MouseButton reports whether button 1/2/3 (left/middle/right) is held.
func (in *Input) MouseButton(button int) bool { return isPressed(in.mouse[button]) }

// MouseButtonDown reports whether the button was pressed this frame.
func (in *Input) MouseButtonDown(button int) bool { return isJustDown(in.mouse[button]) }

// MouseButtonUp reports whether the button was released this frame.
func (in *Input) MouseButtonUp(button int) bool { return isJustUp(in.mouse[button]) }

// MousePosition returns the cursor position in screen pixels.
func (in *Input) MousePosition() (x, y float64) { return in.mouseX, in.mouseY }

// ScrollDelta returns this frame's vertical wheel movement.
func (in *Input) ScrollDelta() float64 { return in.scroll }

// ShowCursor makes the OS cursor visible over the window.
func (in *Input) ShowCursor() { rl.ShowCursor() }

// HideCursor hides the OS cursor over the window.
func (in *Input) HideCursor() { rl.HideCursor() }
