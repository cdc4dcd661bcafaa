package input

import (
	"github.com/overfield/midikeys/keymap"
)

// Dispatcher injects batches of key transitions into the OS. Press and
// Release must hand the whole batch to the injection primitive as one
// indivisible call, so a chord lands as a single gesture instead of a
// run of discrete key events. Implementations are stateless.
type Dispatcher interface {
	Press(symbols []keymap.Symbol) error
	Release(symbols []keymap.Symbol) error
}

// NewSystem returns the platform dispatcher: SendInput batches on
// Windows, a console echo everywhere else.
func NewSystem() Dispatcher {
	return newSystem()
}
