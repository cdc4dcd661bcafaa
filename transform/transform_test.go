package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type absNote struct {
	tick uint64
	key  uint8
	on   bool
	vel  uint8
}

func absNotes(track smf.Track) []absNote {
	var res []absNote
	var absTick uint64
	for _, ev := range track {
		absTick += uint64(ev.Delta)
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			res = append(res, absNote{absTick, key, vel > 0, vel})
		case ev.Message.GetNoteOff(&ch, &key, &vel):
			res = append(res, absNote{absTick, key, false, vel})
		}
	}
	return res
}

func singleTrack(tpb uint16, build func(tr *smf.Track)) *smf.SMF {
	var tr smf.Track
	build(&tr)
	tr.Close(0)
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(tpb)
	s.Tracks = append(s.Tracks, tr)
	return &s
}

func TestTransposeShiftsNotes(t *testing.T) {
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 100))
		tr.Add(480, midi.NoteOff(0, 60))
	})

	got := absNotes(Transpose(s, 2).Tracks[0])
	assert := assert.New(t)
	assert.Len(got, 2)
	assert.Equal(uint8(62), got[0].key)
	assert.Equal(uint8(62), got[1].key)
	assert.Equal(uint64(480), got[1].tick)
}

func TestTransposeClampsToNoteRange(t *testing.T) {
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 125, 100))
		tr.Add(0, midi.NoteOn(0, 2, 100))
	})

	got := absNotes(Transpose(s, 10).Tracks[0])
	assert.Equal(t, uint8(127), got[0].key)
	assert.Equal(t, uint8(12), got[1].key)

	got = absNotes(Transpose(s, -10).Tracks[0])
	assert.Equal(t, uint8(115), got[0].key)
	assert.Equal(t, uint8(0), got[1].key)
}

func TestBlackKeysShift(t *testing.T) {
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 61, 100)) // C#
		tr.Add(480, midi.NoteOff(0, 61))
		tr.Add(0, midi.NoteOn(0, 60, 100)) // C, untouched
	})

	up := absNotes(ProcessBlackKeys(s, BlackKeysUp).Tracks[0])
	assert := assert.New(t)
	assert.Equal(uint8(62), up[0].key)
	assert.Equal(uint8(62), up[1].key)
	assert.Equal(uint8(60), up[2].key)

	down := absNotes(ProcessBlackKeys(s, BlackKeysDown).Tracks[0])
	assert.Equal(uint8(60), down[0].key)
}

func TestBlackKeysRemoveKeepsTimeline(t *testing.T) {
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 61, 100))
		tr.Add(240, midi.NoteOff(0, 61))
		tr.Add(240, midi.NoteOn(0, 60, 100)) // abs tick 480
		tr.Add(480, midi.NoteOff(0, 60))     // abs tick 960
	})

	got := absNotes(ProcessBlackKeys(s, BlackKeysRemove).Tracks[0])
	assert := assert.New(t)
	assert.Len(got, 2)
	assert.Equal(uint8(60), got[0].key)
	assert.Equal(uint64(480), got[0].tick)
	assert.Equal(uint64(960), got[1].tick)
}

func TestParseBlackKeyMode(t *testing.T) {
	for _, valid := range []string{"up", "down", "remove"} {
		mode, err := ParseBlackKeyMode(valid)
		assert.NoError(t, err)
		assert.Equal(t, BlackKeyMode(valid), mode)
	}
	_, err := ParseBlackKeyMode("sideways")
	assert.Error(t, err)
}

func TestHumanizeStaggersSimultaneousNotes(t *testing.T) {
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 64, 100))
		tr.Add(0, midi.NoteOn(0, 60, 100))
		tr.Add(0, midi.NoteOn(0, 62, 100))
		tr.Add(480, midi.NoteOff(0, 64))
		tr.Add(0, midi.NoteOff(0, 60))
		tr.Add(0, midi.NoteOff(0, 62))
	})

	got := absNotes(Humanize(s, 10).Tracks[0])
	byKey := make(map[uint8]uint64)
	for _, n := range got {
		if n.on {
			byKey[n.key] = n.tick
		}
	}

	// lowest note keeps the chord's tick, higher ones trail behind
	assert := assert.New(t)
	assert.Equal(uint64(0), byKey[60])
	assert.Equal(uint64(10), byKey[62])
	assert.Equal(uint64(20), byKey[64])
}

func TestHumanizeLeavesSingleNotesAlone(t *testing.T) {
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 100))
		tr.Add(480, midi.NoteOff(0, 60))
		tr.Add(0, midi.NoteOn(0, 62, 100))
		tr.Add(480, midi.NoteOff(0, 62))
	})

	got := absNotes(Humanize(s, 10).Tracks[0])
	want := absNotes(s.Tracks[0])
	assert.Equal(t, want, got)
}

func TestRemoveLowerNotesKeepsHighestOfSpan(t *testing.T) {
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 100))
		tr.Add(0, midi.NoteOn(0, 64, 100))
		tr.Add(480, midi.NoteOff(0, 60))
		tr.Add(0, midi.NoteOff(0, 64))
	})

	got := absNotes(RemoveLowerNotes(s).Tracks[0])
	assert := assert.New(t)
	assert.Len(got, 2)
	assert.Equal(uint8(64), got[0].key)
	assert.True(got[0].on)
	assert.Equal(uint8(64), got[1].key)
	assert.Equal(uint64(480), got[1].tick)
}

func TestRemoveLowerNotesSparesDifferingSpans(t *testing.T) {
	// same start, different ends: both survive
	s := singleTrack(480, func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 100))
		tr.Add(0, midi.NoteOn(0, 64, 100))
		tr.Add(240, midi.NoteOff(0, 60))
		tr.Add(240, midi.NoteOff(0, 64))
	})

	got := absNotes(RemoveLowerNotes(s).Tracks[0])
	assert.Len(t, got, 4)
}
