package score

import (
	"math"

	"github.com/overfield/midikeys/model"
)

// Epsilon is the widest timestamp difference still treated as
// simultaneous when partitioning events into groups.
const Epsilon = 1e-9

// Partition splits an ordered event list into groups of simultaneous
// events. Each group carries its Offs and Ons separately so the player
// can always release before pressing. Groups come out in strictly
// ascending time order.
func Partition(events []model.TimedEvent) []model.EventGroup {
	if len(events) == 0 {
		return nil
	}

	var groups []model.EventGroup
	cur := model.EventGroup{Time: events[0].Time}
	for _, e := range events {
		if math.Abs(e.Time-cur.Time) >= Epsilon {
			groups = append(groups, cur)
			cur = model.EventGroup{Time: e.Time}
		}
		if e.Kind == model.NoteOff {
			cur.Offs = append(cur.Offs, e)
		} else {
			cur.Ons = append(cur.Ons, e)
		}
	}
	groups = append(groups, cur)
	return groups
}
