package checkout

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestRemainingDefaults(t *testing.T) {
	s := NewSession("u1")
	cd := NewCountdown(s, clockwork.NewFakeClock(), nil)

	// timer never started
	assert.Equal(t, DefaultTimerDuration, cd.Remaining())

	s.ExpireTimer()
	assert.Equal(t, DefaultTimerDuration, cd.Remaining())
}

func TestRemainingUnhydratedSession(t *testing.T) {
	var s Session
	raw, _ := json.Marshal(NewSession("u1"))
	json.Unmarshal(raw, &s)
	started := time.Now().Add(-time.Hour)
	s.TimerStartedAt = &started
	s.TimerDuration = DefaultTimerDuration

	cd := NewCountdown(&s, clockwork.NewRealClock(), nil)
	assert.False(t, s.Hydrated())
	assert.Equal(t, DefaultTimerDuration, cd.Remaining())
}

func TestRemainingCountsDown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSession("u1")
	s.GoToSummary(clock.Now())

	cd := NewCountdown(s, clock, nil)
	assert.Equal(t, 600, cd.Remaining())

	clock.Advance(90 * time.Second)
	assert.Equal(t, 510, cd.Remaining())

	clock.Advance(20 * time.Minute)
	assert.Equal(t, 0, cd.Remaining())
}

func TestRemainingClampedForFutureStart(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSession("u1")
	started := clock.Now().Add(time.Minute)
	s.TimerStartedAt = &started

	cd := NewCountdown(s, clock, nil)
	assert.Equal(t, DefaultTimerDuration, cd.Remaining())
}

func TestCountdownFiresExactlyOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSession("u1")
	started := clock.Now().Add(-601 * time.Second)
	s.TimerStartedAt = &started

	var fired int32
	cd := NewCountdown(s, clock, func() {
		atomic.AddInt32(&fired, 1)
	})

	done := make(chan struct{})
	go func() {
		cd.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not fire past its deadline")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.True(t, s.IsTimerExpired)

	// a second run on the already expired session is a no-op
	cd.Run(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestCountdownStops(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSession("u1")
	s.GoToSummary(clock.Now())

	var fired int32
	cd := NewCountdown(s, clock, func() {
		atomic.AddInt32(&fired, 1)
	})

	done := make(chan struct{})
	go func() {
		cd.Run(context.Background())
		close(done)
	}()

	cd.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not stop")
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.False(t, s.IsTimerExpired)
}

func TestCountdownNotStartedDoesNotRun(t *testing.T) {
	s := NewSession("u1")
	var fired int32
	cd := NewCountdown(s, clockwork.NewFakeClock(), func() {
		atomic.AddInt32(&fired, 1)
	})
	cd.Run(context.Background())
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}
