package input

import rl "github.com/gen2brain/raylib-go/raylib"

// keyCodes maps script-facing key names to raylib key codes. Unknown names
// simply never report as pressed.
var keyCodes = map[string]int32{
	"up":    rl.KeyUp,
	"down":  rl.KeyDown,
	"left":  rl.KeyLeft,
	"right": rl.KeyRight,

	"space":     rl.KeySpace,
	"enter":     rl.KeyEnter,
	"escape":    rl.KeyEscape,
	"tab":       rl.KeyTab,
	"backspace": rl.KeyBackspace,
	"delete":    rl.KeyDelete,

	"lshift": rl.KeyLeftShift,
	"rshift": rl.KeyRightShift,
	"lctrl":  rl.KeyLeftControl,
	"rctrl":  rl.KeyRightControl,
	"lalt":   rl.KeyLeftAlt,
	"ralt":   rl.KeyRightAlt,

	"a": rl.KeyA, "b": rl.KeyB, "c": rl.KeyC, "d": rl.KeyD,
	"e": rl.KeyE, "f": rl.KeyF, "g": rl.KeyG, "h": rl.KeyH,
	"i": rl.KeyI, "j": rl.KeyJ, "k": rl.KeyK, "l": rl.KeyL,
	"m": rl.KeyM, "n": rl.KeyN, "o": rl.KeyO, "p": rl.KeyP,
	"q": rl.KeyQ, "r": rl.KeyR, "s": rl.KeyS, "t": rl.KeyT,
	"u": rl.KeyU, "v": rl.KeyV, "w": rl.KeyW, "x": rl.KeyX,
	"y": rl.KeyY, "z": rl.KeyZ,

	"0": rl.KeyZero, "1": rl.KeyOne, "2": rl.KeyTwo, "3": rl.KeyThree,
	"4": rl.KeyFour, "5": rl.KeyFive, "6": rl.KeySix, "7": rl.KeySeven,
	"8": rl.KeyEight, "9": rl.KeyNine,
}

// mouseButtons maps the script-facing 1/2/3 indices (left, middle, right) to
// raylib button codes.
var mouseButtons = map[int]rl.MouseButton{
	1: rl.MouseButtonLeft,
	2: rl.MouseButtonMiddle,
	3: rl.MouseButtonRight,
}
