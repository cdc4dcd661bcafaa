package cmd

import (
	"sync"

	"github.com/overfield/midikeys/model"
	"github.com/overfield/midikeys/player"
)

const (
	stateRunning   = "running"
	stateFinished  = "finished"
	stateCancelled = "cancelled"
	stateFailed    = "failed"
)

// playSession tracks one playback worker. The worker owns the player;
// handlers only read status and fire the stop signal.
type playSession struct {
	id   string
	stop *player.StopSignal

	mu      sync.Mutex
	state   string
	elapsed float64
}

func newPlaySession(id string) *playSession {
	return &playSession{
		id:    id,
		stop:  player.NewStopSignal(),
		state: stateRunning,
	}
}

// setElapsed is the progress callback handed to the player.
func (s *playSession) setElapsed(v float64) {
	s.mu.Lock()
	s.elapsed = v
	s.mu.Unlock()
}

func (s *playSession) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.state = stateFailed
	case s.stop.Stopped():
		s.state = stateCancelled
	default:
		s.state = stateFinished
	}
}

func (s *playSession) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

func (s *playSession) status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SessionStatus{
		SessionId: s.id,
		State:     s.state,
		Elapsed:   s.elapsed,
	}
}
