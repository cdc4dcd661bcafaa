package player

import (
	"runtime"
	"time"

	"github.com/overfield/midikeys/input"
	"github.com/overfield/midikeys/keymap"
	"github.com/overfield/midikeys/model"
)

// Options tunes a play session. Zero values fall back to defaults.
type Options struct {
	// SpinThreshold is the remaining-time window in which the wait
	// loop busy-polls the clock instead of sleeping.
	SpinThreshold time.Duration
	// SleepChunk bounds each interruptible wait so a stop request is
	// noticed within SleepChunk plus the spin window.
	SleepChunk time.Duration
	// ProgressInterval is the minimum spacing of progress callbacks.
	ProgressInterval time.Duration
	// Progress receives elapsed seconds; panics in it are swallowed.
	Progress func(elapsed float64)
	// RaisePriority asks the OS for elevated scheduling, best-effort.
	RaisePriority bool
}

func (o Options) withDefaults() Options {
	if o.SpinThreshold == 0 {
		o.SpinThreshold = 5 * time.Millisecond
	}
	if o.SleepChunk == 0 {
		o.SleepChunk = 10 * time.Millisecond
	}
	if o.ProgressInterval == 0 {
		o.ProgressInterval = 50 * time.Millisecond
	}
	return o
}

// Player drives one playback session at a time against a dispatcher.
// It is the only writer of the pressed-key state, so sessions sharing
// a dispatcher must be serialized by the caller.
type Player struct {
	keys keymap.Mapping
	out  input.Dispatcher
}

func New(keys keymap.Mapping, out input.Dispatcher) *Player {
	return &Player{keys: keys, out: out}
}

// callProgress absorbs panics so a broken callback can never
// interrupt the timing loop.
func callProgress(cb func(float64), elapsed float64) {
	defer func() {
		recover()
	}()
	cb(elapsed)
}

// Play blocks until every group has been dispatched or stop fires.
// Whichever way the session ends, every symbol still held is released
// in one final batch before returning. The only error that can come
// out of the timing loop is a failed injection call, which is fatal
// to the session.
func (p *Player) Play(groups []model.EventGroup, stop *StopSignal, opts Options) (err error) {
	if len(groups) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	if opts.RaisePriority {
		// thread priority only sticks if the goroutine stays put
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		raisePriority()
	}

	pressed := make(map[keymap.Symbol]bool)
	defer func() {
		if len(pressed) == 0 {
			return
		}
		var all []keymap.Symbol
		for s := range pressed {
			all = append(all, s)
		}
		relErr := p.out.Release(all)
		for _, s := range all {
			delete(pressed, s)
		}
		if err == nil {
			err = relErr
		}
	}()

	baseTime := groups[0].Time
	start := time.Now()
	lastProgress := start

	for _, g := range groups {
		if stop.Stopped() {
			return nil
		}

		deadline := start.Add(time.Duration((g.Time - baseTime) * float64(time.Second)))
		if !p.waitUntil(deadline, stop, opts, start, baseTime, &lastProgress) {
			return nil
		}

		// Off-batch: explicit offs plus a release for every symbol
		// about to be pressed while already down, so a retrigger
		// produces a fresh edge.
		inOffBatch := make(map[keymap.Symbol]bool)
		var offs []keymap.Symbol
		for _, e := range g.Offs {
			s, ok := p.keys.Symbol(e.Note)
			if !ok || !pressed[s] || inOffBatch[s] {
				continue
			}
			offs = append(offs, s)
			inOffBatch[s] = true
		}

		var ons []keymap.Symbol
		for _, e := range g.Ons {
			s, ok := p.keys.Symbol(e.Note)
			if !ok {
				continue
			}
			ons = append(ons, s)
			if pressed[s] && !inOffBatch[s] {
				offs = append(offs, s)
				inOffBatch[s] = true
			}
		}

		if len(offs) > 0 {
			if err := p.out.Release(offs); err != nil {
				return err
			}
			for _, s := range offs {
				delete(pressed, s)
			}
		}
		if len(ons) > 0 {
			if err := p.out.Press(ons); err != nil {
				return err
			}
			for _, s := range ons {
				pressed[s] = true
			}
		}
	}

	return nil
}

// waitUntil holds until deadline using the hybrid strategy: bounded
// interruptible sleeps while far out, a busy poll inside the spin
// window for sub-millisecond firing accuracy. Returns false once stop
// fires.
func (p *Player) waitUntil(deadline time.Time, stop *StopSignal, opts Options, start time.Time, baseTime float64, lastProgress *time.Time) bool {
	for {
		if stop.Stopped() {
			return false
		}
		now := time.Now()

		if opts.Progress != nil && now.Sub(*lastProgress) >= opts.ProgressInterval {
			callProgress(opts.Progress, now.Sub(start).Seconds()+baseTime)
			*lastProgress = now
		}

		remaining := deadline.Sub(now)
		if remaining <= 0 {
			return true
		}

		if remaining > opts.SpinThreshold {
			// don't oversleep into the spin window
			chunk := remaining - opts.SpinThreshold
			if chunk > opts.SleepChunk {
				chunk = opts.SleepChunk
			}
			stop.wait(chunk)
			continue
		}

		for {
			if stop.Stopped() {
				return false
			}
			if !time.Now().Before(deadline) {
				return true
			}
		}
	}
}
