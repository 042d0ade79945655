package assessments

import (
	"sync"
	"time"
)

// Countdown drives a session's 1-second tick. Stop is idempotent and never
// blocks, so it is safe to call while holding the session lock.
type Countdown struct {
	stop    chan struct{}
	once    sync.Once
	stopped chan struct{}
}

// StartCountdown calls tick every interval until tick returns false or Stop is called.
func StartCountdown(interval time.Duration, tick func() bool) *Countdown {
	c := &Countdown{
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(c.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if !tick() {
					return
				}
			}
		}
	}()
	return c
}

// Stop ends the countdown.
func (c *Countdown) Stop() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

// Done is closed once the tick goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.stopped
}
