package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown derives the remaining checkout seconds from the session's
// absolute start time. Each tick recomputes from TimerStartedAt instead of
// decrementing a counter, so the reading never drifts. The expiry callback
// fires at most once per Countdown, however many ticks read zero.
type Countdown struct {
	sess     *Session
	clock    clockwork.Clock
	interval time.Duration
	onExpire func()

	mu    sync.Mutex
	fired bool
	stop  chan struct{}
	once  sync.Once
}

func NewCountdown(sess *Session, clock clockwork.Clock, onExpire func()) *Countdown {
	return &Countdown{
		sess:     sess,
		clock:    clock,
		interval: time.Second,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
}

// Remaining reports the seconds left on the countdown. A session whose
// timer never started, or which is already flagged expired, reads as the
// full duration (the display default). An unhydrated session also reads as
// the full duration so a half-loaded document can never report "expired".
func (c *Countdown) Remaining() int {
	s := c.sess
	if !s.Hydrated() || s.TimerStartedAt == nil || s.IsTimerExpired {
		return s.TimerDuration
	}
	elapsed := int(c.clock.Now().Sub(*s.TimerStartedAt) / time.Second)
	remaining := s.TimerDuration - elapsed
	if remaining < 0 {
		return 0
	}
	// A start time ahead of the wall clock (skewed writer) must not report
	// more time than the countdown ever had.
	if remaining > s.TimerDuration {
		return s.TimerDuration
	}
	return remaining
}

// Run checks immediately, then polls once per interval until the countdown
// reaches zero, the context is done, or Stop is called. It returns after
// firing the expiry at most once.
func (c *Countdown) Run(ctx context.Context) {
	s := c.sess
	if !s.Hydrated() || s.TimerStartedAt == nil || s.IsTimerExpired {
		return
	}
	if c.check() {
		return
	}
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.Chan():
			if c.check() {
				return
			}
		}
	}
}

// Stop detaches the poller; no background timer survives it.
func (c *Countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Countdown) check() bool {
	if c.Remaining() > 0 {
		return false
	}
	c.mu.Lock()
	fired := c.fired
	c.fired = true
	c.mu.Unlock()
	if !fired {
		c.sess.ExpireTimer()
		if c.onExpire != nil {
			c.onExpire()
		}
	}
	return true
}
