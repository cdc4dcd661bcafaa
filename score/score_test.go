package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/overfield/midikeys/model"
)

func newSMF(ticksPerBeat uint16, tracks ...smf.Track) *smf.SMF {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)
	s.Tracks = append(s.Tracks, tracks...)
	return &s
}

func TestBasicTiming(t *testing.T) {
	var tr smf.Track
	tr.Add(480, midi.NoteOn(0, 60, 100))
	tr.Close(0)
	s := newSMF(480, tr)

	events, err := Events(s, Window{})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.TimedEvent{
		{Time: 0.5, Kind: model.NoteOn, Note: 60, Velocity: 100},
	}, events)
}

func TestNoteOnVelocityZeroBecomesOff(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, midi.NoteOn(0, 60, 0))
	tr.Close(0)
	s := newSMF(480, tr)

	events, err := Events(s, Window{})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 2)
	assert.Equal(model.NoteOn, events[0].Kind)
	assert.Equal(model.NoteOff, events[1].Kind)
	assert.Equal(uint8(60), events[1].Note)
}

func TestTempoChangeAffectsFollowingDeltas(t *testing.T) {
	var tr smf.Track
	tr.Add(480, midi.NoteOn(0, 60, 100)) // 0.5s at 120 BPM
	tr.Add(0, smf.MetaTempo(60))
	tr.Add(480, midi.NoteOff(0, 60)) // +1.0s at 60 BPM
	tr.Close(0)
	s := newSMF(480, tr)

	events, err := Events(s, Window{})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 2)
	assert.InDelta(0.5, events[0].Time, 1e-9)
	assert.InDelta(1.5, events[1].Time, 1e-9)
}

func TestTempoChangeEmitsNoEvent(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(90))
	tr.Close(0)
	s := newSMF(480, tr)

	events, err := Events(s, Window{})
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestOutOfRangeNotesDropped(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 30, 100))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(0, midi.NoteOn(0, 90, 100))
	tr.Close(0)
	s := newSMF(480, tr)

	events, err := Events(s, Window{})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 1)
	assert.Equal(uint8(60), events[0].Note)
}

func TestWindowClipsEvents(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))   // 0.0
	tr.Add(480, midi.NoteOn(0, 62, 100)) // 0.5
	tr.Add(480, midi.NoteOn(0, 64, 100)) // 1.0
	tr.Add(480, midi.NoteOn(0, 65, 100)) // 1.5
	tr.Close(0)
	s := newSMF(480, tr)

	events, err := Events(s, Window{Min: 0.4, HasMin: true, Max: 1.1, HasMax: true})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 2)
	assert.Equal(uint8(62), events[0].Note)
	assert.Equal(uint8(64), events[1].Note)
}

func TestCompilationIsDeterministic(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(240, smf.MetaTempo(90))
	tr.Add(240, midi.NoteOn(0, 64, 80))
	tr.Add(0, midi.NoteOff(0, 60))
	tr.Add(480, midi.NoteOff(0, 64))
	tr.Close(0)
	s := newSMF(480, tr)

	first, err := Events(s, Window{})
	assert.NoError(t, err)
	second, err := Events(s, Window{})
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMultiTrackTiesKeepArrivalOrder(t *testing.T) {
	var tr1, tr2 smf.Track
	tr1.Add(480, midi.NoteOn(0, 60, 100))
	tr1.Close(0)
	tr2.Add(480, midi.NoteOn(0, 64, 100))
	tr2.Close(0)
	s := newSMF(480, tr1, tr2)

	events, err := Events(s, Window{})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 2)
	assert.Equal(uint8(60), events[0].Note)
	assert.Equal(uint8(64), events[1].Note)
	assert.Equal(events[0].Time, events[1].Time)
}

func TestTotalLength(t *testing.T) {
	var tr smf.Track
	tr.Add(480, midi.NoteOn(0, 60, 100)) // 0.5s
	tr.Add(0, smf.MetaTempo(60))
	tr.Add(480, midi.NoteOff(0, 60)) // +1.0s
	tr.Close(0)
	s := newSMF(480, tr)

	total, err := TotalLength(s)
	assert.NoError(t, err)
	assert.InDelta(t, 1.5, total, 1e-9)
}
