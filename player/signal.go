package player

import (
	"sync"
	"time"
)

// StopSignal is the cooperative cancellation token shared between a
// play session and its controller: a flag plus a wake channel so
// blocked waits end as soon as Stop is called. Exactly one session
// should observe a signal at a time; Reset only after Play returned.
type StopSignal struct {
	mu   sync.Mutex
	set  bool
	wake chan struct{}
}

func NewStopSignal() *StopSignal {
	return &StopSignal{wake: make(chan struct{})}
}

// Stop sets the flag and wakes any pending wait. Idempotent.
func (s *StopSignal) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		s.set = true
		close(s.wake)
	}
}

// Stopped reports whether Stop has been called since the last Reset.
func (s *StopSignal) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Reset rearms the signal for another session. Calling it while a
// session is still running races with that session's cleanup.
func (s *StopSignal) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		s.set = false
		s.wake = make(chan struct{})
	}
}

// wait blocks for up to d or until the signal fires.
func (s *StopSignal) wait(d time.Duration) {
	s.mu.Lock()
	wake := s.wake
	set := s.set
	s.mu.Unlock()
	if set || d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-wake:
	case <-t.C:
	}
}
