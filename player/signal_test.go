package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopSignalLifecycle(t *testing.T) {
	s := NewStopSignal()
	assert := assert.New(t)

	assert.False(s.Stopped())
	s.Stop()
	assert.True(s.Stopped())
	s.Stop() // idempotent
	assert.True(s.Stopped())

	s.Reset()
	assert.False(s.Stopped())
	s.Stop()
	assert.True(s.Stopped())
}

func TestStopWakesPendingWait(t *testing.T) {
	s := NewStopSignal()

	done := make(chan struct{})
	go func() {
		s.wait(5 * time.Second)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	begin := time.Now()
	s.Stop()

	select {
	case <-done:
		assert.Less(t, time.Since(begin), time.Second)
	case <-time.After(time.Second):
		t.Fatal("wait did not wake after Stop")
	}
}

func TestWaitReturnsImmediatelyWhenStopped(t *testing.T) {
	s := NewStopSignal()
	s.Stop()

	begin := time.Now()
	s.wait(5 * time.Second)
	assert.Less(t, time.Since(begin), time.Second)
}
