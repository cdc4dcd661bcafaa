package input

import (
	"github.com/overfield/midikeys/keymap"
)

// Call is one recorded Press or Release batch.
type Call struct {
	Press   bool
	Symbols []keymap.Symbol
}

// Recorder is a Dispatcher that records batches instead of touching
// the OS. Err, when set, is returned from every call so tests can
// exercise the injection-failure path.
type Recorder struct {
	Calls []Call
	Err   error
}

func (r *Recorder) record(press bool, symbols []keymap.Symbol) error {
	if r.Err != nil {
		return r.Err
	}
	cp := make([]keymap.Symbol, len(symbols))
	copy(cp, symbols)
	r.Calls = append(r.Calls, Call{Press: press, Symbols: cp})
	return nil
}

func (r *Recorder) Press(symbols []keymap.Symbol) error {
	return r.record(true, symbols)
}

func (r *Recorder) Release(symbols []keymap.Symbol) error {
	return r.record(false, symbols)
}
