//go:build !windows

package input

import (
	"fmt"

	"github.com/overfield/midikeys/keymap"
)

// consoleDispatcher echoes transitions to stdout. Only Windows has a
// batched injection primitive; elsewhere there is no simultaneity
// guarantee and no real key output.
type consoleDispatcher struct{}

func newSystem() Dispatcher {
	return consoleDispatcher{}
}

func (consoleDispatcher) print(symbols []keymap.Symbol, verb string) {
	for _, s := range symbols {
		fmt.Printf("%v %c\n", verb, rune(s))
	}
}

func (d consoleDispatcher) Press(symbols []keymap.Symbol) error {
	d.print(symbols, "press")
	return nil
}

func (d consoleDispatcher) Release(symbols []keymap.Symbol) error {
	d.print(symbols, "release")
	return nil
}
