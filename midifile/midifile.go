package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Parse parses standard MIDI file bytes.
func Parse(dat []byte) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			s, e = &blank, errors.New(r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("error parsing midi file... %w", err)
	}

	return res, nil
}

// Read parses a standard MIDI file from disk.
func Read(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		var blank smf.SMF
		return &blank, fmt.Errorf("error reading midi file... %w", err)
	}
	return Parse(dat)
}

// Write saves a standard MIDI file to disk.
func Write(s *smf.SMF, filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("could not create midi file: %w", err)
	}
	defer f.Close()

	if _, err := s.WriteTo(f); err != nil {
		return fmt.Errorf("could not write midi file: %w", err)
	}
	return nil
}

// TicksPerBeat extracts the file's metric resolution. Files with a
// timecode time format cannot drive the score compiler.
func TicksPerBeat(s *smf.SMF) (uint32, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, fmt.Errorf("unsupported time format: %v", s.TimeFormat)
	}
	res := uint32(mt.Resolution())
	if res == 0 {
		return 0, errors.New("midi file has zero ticks per beat")
	}
	return res, nil
}

// Message is one entry of the merged chronological stream. Delta is
// ticks since the previous merged message.
type Message struct {
	Delta uint32
	Msg   smf.Message
}

// Merge flattens all tracks into one chronologically ordered stream
// with recomputed tick deltas. Messages landing on the same tick keep
// track order, so ties stay in arrival order for the compiler.
func Merge(s *smf.SMF) []Message {
	// next unconsumed event per track
	trackPos := make([]int, len(s.Tracks))
	// absolute tick of the last consumed event per track
	trackTime := make([]uint64, len(s.Tracks))

	var res []Message
	var prevTime uint64
	for {
		earliest := -1
		var earliestTime uint64
		for i, t := range s.Tracks {
			p := trackPos[i]
			if p >= len(t) {
				continue
			}
			at := trackTime[i] + uint64(t[p].Delta)
			if earliest < 0 || at < earliestTime {
				earliestTime = at
				earliest = i
			}
		}
		if earliest < 0 {
			return res
		}
		msg := s.Tracks[earliest][trackPos[earliest]].Message
		if !msg.Is(smf.MetaEndOfTrackMsg) {
			res = append(res, Message{
				Delta: uint32(earliestTime - prevTime),
				Msg:   msg,
			})
			prevTime = earliestTime
		}
		trackPos[earliest]++
		trackTime[earliest] = earliestTime
	}
}
