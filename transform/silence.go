package transform

import (
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/overfield/midikeys/midifile"
)

const defaultTempoMicros = 500000.0

// tempoPoint pins the accumulated seconds at the tick where a tempo
// takes effect, so tick<->second conversion stays exact across tempo
// changes.
type tempoPoint struct {
	tick   uint64
	sec    float64
	micros float64
}

func collectTempoMap(s *smf.SMF, ticksPerBeat uint32) []tempoPoint {
	type change struct {
		tick   uint64
		micros float64
	}
	changes := []change{{0, defaultTempoMicros}}
	for _, track := range s.Tracks {
		var absTick uint64
		for _, ev := range track {
			absTick += uint64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) {
				changes = append(changes, change{absTick, 60_000_000.0 / bpm})
			}
		}
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].tick < changes[j].tick })

	points := make([]tempoPoint, 0, len(changes))
	var sec float64
	prev := change{0, defaultTempoMicros}
	for _, c := range changes {
		sec += float64(c.tick-prev.tick) * (prev.micros / 1_000_000.0) / float64(ticksPerBeat)
		points = append(points, tempoPoint{tick: c.tick, sec: sec, micros: c.micros})
		prev = c
	}
	return points
}

func secondsAt(points []tempoPoint, ticksPerBeat uint32, tick uint64) float64 {
	p := points[0]
	for _, c := range points {
		if c.tick > tick {
			break
		}
		p = c
	}
	return p.sec + float64(tick-p.tick)*(p.micros/1_000_000.0)/float64(ticksPerBeat)
}

func tickAt(points []tempoPoint, ticksPerBeat uint32, sec float64) uint64 {
	p := points[0]
	for _, c := range points {
		if c.sec > sec {
			break
		}
		p = c
	}
	return p.tick + uint64((sec-p.sec)*1_000_000.0/p.micros*float64(ticksPerBeat))
}

// cut is a tick region to squeeze out of the timeline.
type cut struct {
	from uint64
	to   uint64
}

func remapTick(cuts []cut, tick uint64) uint64 {
	var removed uint64
	for _, c := range cuts {
		if tick >= c.to {
			removed += c.to - c.from
		} else if tick > c.from {
			removed += tick - c.from
			break
		} else {
			break
		}
	}
	return tick - removed
}

// ShrinkSilences caps every cross-track gap with no sounding note at
// maxSilence seconds, compressing at the tick level so tempo events
// and message order survive.
func ShrinkSilences(s *smf.SMF, maxSilence float64) (*smf.SMF, error) {
	ticksPerBeat, err := midifile.TicksPerBeat(s)
	if err != nil {
		return nil, err
	}
	points := collectTempoMap(s, ticksPerBeat)

	type noteEvent struct {
		tick  uint64
		start bool
		ch    uint8
		note  uint8
	}
	var notes []noteEvent
	for _, track := range s.Tracks {
		var absTick uint64
		for _, ev := range track {
			absTick += uint64(ev.Delta)
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &vel):
				notes = append(notes, noteEvent{absTick, vel > 0, ch, key})
			case ev.Message.GetNoteOff(&ch, &key, &vel):
				notes = append(notes, noteEvent{absTick, false, ch, key})
			}
		}
	}
	// offs before ons on the same tick, so back-to-back notes do not
	// read as a gap
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].tick != notes[j].tick {
			return notes[i].tick < notes[j].tick
		}
		return !notes[i].start && notes[j].start
	})

	var cuts []cut
	active := make(map[uint16]int)
	var silentSince uint64
	silent := true
	for _, n := range notes {
		k := uint16(n.ch)<<8 | uint16(n.note)
		if n.start {
			if silent {
				gap := secondsAt(points, ticksPerBeat, n.tick) - secondsAt(points, ticksPerBeat, silentSince)
				if gap > maxSilence {
					from := tickAt(points, ticksPerBeat, secondsAt(points, ticksPerBeat, silentSince)+maxSilence)
					if from < n.tick {
						cuts = append(cuts, cut{from: from, to: n.tick})
					}
				}
				silent = false
			}
			active[k]++
		} else {
			if active[k] > 0 {
				active[k]--
				if active[k] == 0 {
					delete(active, k)
				}
			}
			if len(active) == 0 && !silent {
				silent = true
				silentSince = n.tick
			}
		}
	}

	res := newLike(s)
	for _, track := range s.Tracks {
		var newTrack smf.Track
		var absTick, prev uint64
		for _, ev := range track {
			absTick += uint64(ev.Delta)
			if ev.Message.Is(smf.MetaEndOfTrackMsg) {
				continue
			}
			mapped := remapTick(cuts, absTick)
			newTrack = append(newTrack, smf.Event{Delta: uint32(mapped - prev), Message: ev.Message})
			prev = mapped
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}
	return res, nil
}
