// Package input tracks keyboard and mouse state as a per-frame four-state
// machine, so scripts can distinguish the first frame of a press or release
// from a held or idle button.
package input

// ButtonState is the lifecycle of a single key or mouse button.
type ButtonState int

const (
	StateUp ButtonState = iota
	StateJustDown
	StateDown
	StateJustUp
)

// advance moves a button through the state machine given whether the device
// currently reports it held. Just* states last exactly one frame.
func advance(prev ButtonState, held bool) ButtonState {
	if held {
		if prev == StateUp || prev == StateJustUp {
			return StateJustDown
		}
		return StateDown
	}
	if prev == StateDown || prev == StateJustDown {
		return StateJustUp
	}
	return StateUp
}

func isPressed(s ButtonState) bool  { return s == StateDown || s == StateJustDown }
func isJustDown(s ButtonState) bool { return s == StateJustDown }
func isJustUp(s ButtonState) bool   { return s == StateJustUp }
