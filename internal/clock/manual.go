package clock

import (
	"sync"
	"time"
)

// Manual is a Scheduler that only moves when Advance is called. Callbacks run
// on the goroutine calling Advance, in due order.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	m       *Manual
	at      time.Duration
	every   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (m *Manual) schedule(d, every time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{m: m, at: m.now + d, every: every, f: f}
	m.timers = append(m.timers, t)
	return t
}

func (m *Manual) After(d time.Duration, f func()) Timer {
	return m.schedule(d, 0, f)
}

func (m *Manual) Every(d time.Duration, f func()) Timer {
	return m.schedule(d, d, f)
}

// Now is the time advanced so far.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending counts the timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires every timer that comes due
// on the way. Timers scheduled by a callback fire too if they are due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.due(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.at
		if t.every > 0 {
			t.at += t.every
		} else {
			t.stopped = true
		}
		f := t.f
		m.mu.Unlock()

		f()
	}
}

// due returns the earliest live timer at or before target and drops the
// stopped ones.
func (m *Manual) due(target time.Duration) *manualTimer {
	live := m.timers[:0]
	var next *manualTimer
	for _, t := range m.timers {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.at <= target && (next == nil || t.at < next.at) {
			next = t
		}
	}
	clear(m.timers[len(live):])
	m.timers = live
	return next
}
