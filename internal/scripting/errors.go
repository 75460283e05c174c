package scripting

import "errors"

var errNoSuchSlot = errors.New("slot is not a function")
