// Package clock schedules the delayed and periodic callbacks of a game
// session: the one second tick, hint expiry and safe-click expiry.
package clock

import (
	"sync"
	"time"
)

type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still
	// pending. A callback already running is not interrupted.
	Stop() bool
}

type Scheduler interface {
	// After calls f once, d from now, on its own goroutine.
	After(d time.Duration, f func()) Timer
	// Every calls f each d until the returned timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// Real schedules on runtime timers.
type Real struct{}

func (Real) After(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (Real) Every(d time.Duration, f func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				f()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
