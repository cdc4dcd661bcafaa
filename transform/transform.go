// Package transform holds offline MIDI edits used to prepare files
// for playback on the 21-key layout: transposition, black-key
// handling, humanizing and silence compression.
package transform

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func clampNote(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

func isBlack(note uint8) bool {
	switch note % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// noteMessage rebuilds a note message with a different pitch.
func noteMessage(on bool, ch, key, vel uint8) smf.Message {
	if on {
		return smf.Message(midi.NoteOn(ch, key, vel))
	}
	if vel > 0 {
		return smf.Message(midi.NoteOffVelocity(ch, key, vel))
	}
	return smf.Message(midi.NoteOff(ch, key))
}

func newLike(s *smf.SMF) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = s.TimeFormat
	return &res
}

// Transpose shifts every note by shift semitones, clamped to 0..127.
// All other messages pass through untouched.
func Transpose(s *smf.SMF, shift int) *smf.SMF {
	res := newLike(s)
	for _, track := range s.Tracks {
		var newTrack smf.Track
		for _, ev := range track {
			if ev.Message.Is(smf.MetaEndOfTrackMsg) {
				continue
			}
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &vel):
				ev.Message = noteMessage(true, ch, clampNote(int(key)+shift), vel)
			case ev.Message.GetNoteOff(&ch, &key, &vel):
				ev.Message = noteMessage(false, ch, clampNote(int(key)+shift), vel)
			}
			newTrack = append(newTrack, ev)
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}
	return res
}

// BlackKeyMode selects what ProcessBlackKeys does with black-key
// notes.
type BlackKeyMode string

const (
	BlackKeysUp     BlackKeyMode = "up"
	BlackKeysDown   BlackKeyMode = "down"
	BlackKeysRemove BlackKeyMode = "remove"
)

func ParseBlackKeyMode(s string) (BlackKeyMode, error) {
	switch BlackKeyMode(s) {
	case BlackKeysUp, BlackKeysDown, BlackKeysRemove:
		return BlackKeyMode(s), nil
	}
	return "", fmt.Errorf("unknown black key mode: %v (want up/down/remove)", s)
}

// ProcessBlackKeys moves black-key notes a semitone up or down, or
// removes them. Removed messages donate their delta to the following
// message so the timeline does not shift.
func ProcessBlackKeys(s *smf.SMF, mode BlackKeyMode) *smf.SMF {
	res := newLike(s)
	for _, track := range s.Tracks {
		var newTrack smf.Track
		var carry uint32
		for _, ev := range track {
			if ev.Message.Is(smf.MetaEndOfTrackMsg) {
				continue
			}
			var ch, key, vel uint8
			on := ev.Message.GetNoteOn(&ch, &key, &vel)
			off := !on && ev.Message.GetNoteOff(&ch, &key, &vel)
			if (on || off) && isBlack(key) {
				switch mode {
				case BlackKeysUp:
					if key < 127 {
						ev.Message = noteMessage(on, ch, key+1, vel)
					}
				case BlackKeysDown:
					if key > 0 {
						ev.Message = noteMessage(on, ch, key-1, vel)
					}
				case BlackKeysRemove:
					carry += ev.Delta
					continue
				}
			}
			ev.Delta += carry
			carry = 0
			newTrack = append(newTrack, ev)
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}
	return res
}

// Humanize staggers note-ons that start on the same tick by step
// ticks each, lowest note first, so dense chords stop looking
// machine-perfect.
func Humanize(s *smf.SMF, step uint32) *smf.SMF {
	res := newLike(s)
	for _, track := range s.Tracks {
		type absEvent struct {
			tick uint64
			msg  smf.Message
		}
		var events []absEvent
		var absTick uint64
		for _, ev := range track {
			absTick += uint64(ev.Delta)
			if ev.Message.Is(smf.MetaEndOfTrackMsg) {
				continue
			}
			events = append(events, absEvent{tick: absTick, msg: ev.Message})
		}

		isStart := func(e absEvent) (uint8, bool) {
			var ch, key, vel uint8
			if e.msg.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				return key, true
			}
			return 0, false
		}

		// offset each run of simultaneous note-ons
		i := 0
		for i < len(events) {
			key, ok := isStart(events[i])
			if !ok {
				i++
				continue
			}
			group := []int{i}
			keys := []uint8{key}
			j := i + 1
			for j < len(events) && events[j].tick == events[i].tick {
				k, ok := isStart(events[j])
				if !ok {
					break
				}
				group = append(group, j)
				keys = append(keys, k)
				j++
			}
			// lowest note keeps the original tick
			order := make([]int, len(group))
			for n := range order {
				order[n] = n
			}
			sort.SliceStable(order, func(a, b int) bool {
				return keys[order[a]] < keys[order[b]]
			})
			for rank, n := range order {
				events[group[n]].tick += uint64(step) * uint64(rank)
			}
			i = j
		}

		sort.SliceStable(events, func(a, b int) bool {
			return events[a].tick < events[b].tick
		})
		var newTrack smf.Track
		var prev uint64
		for _, e := range events {
			newTrack = append(newTrack, smf.Event{Delta: uint32(e.tick - prev), Message: e.msg})
			prev = e.tick
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}
	return res
}
