package transform

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// RemoveLowerNotes keeps only the highest note of every set of notes
// sharing an identical start and end tick, per track. Dropped
// messages donate their delta to the next kept message.
func RemoveLowerNotes(s *smf.SMF) *smf.SMF {
	res := newLike(s)
	for _, track := range s.Tracks {
		type span struct {
			onIdx, offIdx int
			start, end    uint64
			note          uint8
		}

		var absTick uint64
		ticks := make([]uint64, len(track))
		open := make(map[uint16][]int) // (ch,note) -> indices of unmatched ons
		var spans []span
		for i, ev := range track {
			absTick += uint64(ev.Delta)
			ticks[i] = absTick
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				k := uint16(ch)<<8 | uint16(key)
				open[k] = append(open[k], i)
			case ev.Message.GetNoteOff(&ch, &key, &vel),
				ev.Message.GetNoteOn(&ch, &key, &vel):
				k := uint16(ch)<<8 | uint16(key)
				if q := open[k]; len(q) > 0 {
					onIdx := q[0]
					open[k] = q[1:]
					spans = append(spans, span{onIdx: onIdx, offIdx: i, start: ticks[onIdx], end: absTick, note: key})
				}
			}
		}

		// bucket spans by (start, end) and mark everything but the
		// highest note for removal
		type bound struct{ start, end uint64 }
		grouped := make(map[bound][]span)
		for _, sp := range spans {
			b := bound{sp.start, sp.end}
			grouped[b] = append(grouped[b], sp)
		}
		drop := make(map[int]bool)
		for _, group := range grouped {
			if len(group) < 2 {
				continue
			}
			highest := group[0]
			for _, sp := range group[1:] {
				if sp.note > highest.note {
					highest = sp
				}
			}
			for _, sp := range group {
				if sp.onIdx != highest.onIdx {
					drop[sp.onIdx] = true
					drop[sp.offIdx] = true
				}
			}
		}

		var newTrack smf.Track
		var prev uint64
		for i, ev := range track {
			if drop[i] || ev.Message.Is(smf.MetaEndOfTrackMsg) {
				continue
			}
			newTrack = append(newTrack, smf.Event{Delta: uint32(ticks[i] - prev), Message: ev.Message})
			prev = ticks[i]
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}
	return res
}
