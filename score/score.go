package score

import (
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/overfield/midikeys/keymap"
	"github.com/overfield/midikeys/midifile"
	"github.com/overfield/midikeys/model"
)

// defaultTempo is 120 BPM in microseconds per quarter note.
const defaultTempo = 500000.0

// Window clips compilation to [Min, Max] seconds. Zero value means no
// clipping on that side.
type Window struct {
	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// tempoMicros converts gomidi's BPM reading back to microseconds per
// quarter note, the unit the accumulator works in.
func tempoMicros(bpm float64) float64 {
	return 60_000_000.0 / bpm
}

// Events compiles the file's merged message stream into an ordered
// list of TimedEvents with absolute times in seconds. Notes outside
// the playable window are silently dropped, as are events outside w.
func Events(s *smf.SMF, w Window) ([]model.TimedEvent, error) {
	ticksPerBeat, err := midifile.TicksPerBeat(s)
	if err != nil {
		return nil, err
	}

	var events []model.TimedEvent
	currentTempo := defaultTempo
	var absTime float64

	for _, m := range midifile.Merge(s) {
		if m.Delta != 0 {
			absTime += float64(m.Delta) * (currentTempo / 1_000_000.0) / float64(ticksPerBeat)
		}

		var bpm float64
		if m.Msg.GetMetaTempo(&bpm) {
			currentTempo = tempoMicros(bpm)
			continue
		}

		if w.HasMin && absTime < w.Min {
			continue
		}

		var ch, key, vel uint8
		switch {
		case m.Msg.GetNoteOn(&ch, &key, &vel):
			if keymap.InRange(key) {
				if vel == 0 {
					events = append(events, model.TimedEvent{Time: absTime, Kind: model.NoteOff, Note: key})
				} else {
					events = append(events, model.TimedEvent{Time: absTime, Kind: model.NoteOn, Note: key, Velocity: vel})
				}
			}
		case m.Msg.GetNoteOff(&ch, &key, &vel):
			if keymap.InRange(key) {
				events = append(events, model.TimedEvent{Time: absTime, Kind: model.NoteOff, Note: key, Velocity: vel})
			}
		}

		if w.HasMax && absTime > w.Max {
			break
		}
	}

	// exact post-filter; the scan above only stops early
	if w.HasMax {
		var kept []model.TimedEvent
		for _, e := range events {
			if e.Time <= w.Max {
				kept = append(kept, e)
			}
		}
		events = kept
	}

	return events, nil
}

// TotalLength runs the same tempo-aware accumulation without emitting
// events and returns the file's duration in seconds.
func TotalLength(s *smf.SMF) (float64, error) {
	ticksPerBeat, err := midifile.TicksPerBeat(s)
	if err != nil {
		return 0, err
	}

	currentTempo := defaultTempo
	var total float64
	for _, m := range midifile.Merge(s) {
		if m.Delta != 0 {
			total += float64(m.Delta) * (currentTempo / 1_000_000.0) / float64(ticksPerBeat)
		}
		var bpm float64
		if m.Msg.GetMetaTempo(&bpm) {
			currentTempo = tempoMicros(bpm)
		}
	}
	return total, nil
}
