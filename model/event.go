package model

// EventKind says whether a TimedEvent starts or ends a note.
type EventKind uint8

const (
	NoteOn EventKind = iota
	NoteOff
)

func (k EventKind) String() string {
	if k == NoteOn {
		return "on"
	}
	return "off"
}

// TimedEvent is a single note occurrence at an absolute offset
// (seconds) from playback start. Immutable once produced.
type TimedEvent struct {
	Time     float64
	Kind     EventKind
	Note     uint8
	Velocity uint8
}

// EventGroup holds all events sharing an effectively identical
// timestamp. Offs must always be dispatched before Ons.
type EventGroup struct {
	Time float64
	Offs []TimedEvent
	Ons  []TimedEvent
}
