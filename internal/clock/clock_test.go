package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAfter(t *testing.T) {
	m := NewManual()
	fired := 0
	m.After(2*time.Second, func() { fired++ })

	m.Advance(time.Second)
	assert.Zero(t, fired)
	m.Advance(time.Second)
	assert.Equal(t, 1, fired)
	m.Advance(time.Hour)
	assert.Equal(t, 1, fired)
	assert.Zero(t, m.Pending())
}

func TestManualEvery(t *testing.T) {
	m := NewManual()
	ticks := 0
	tm := m.Every(time.Second, func() { ticks++ })

	m.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 3500*time.Millisecond, m.Now())

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	m.Advance(10 * time.Second)
	assert.Equal(t, 3, ticks)
}

func TestManualOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.After(2500*time.Millisecond, func() { got = append(got, "hint") })
	m.Every(time.Second, func() { got = append(got, "tick") })
	m.After(2*time.Second+time.Millisecond, func() { got = append(got, "safe") })

	m.Advance(3 * time.Second)
	assert.Equal(t, []string{"tick", "tick", "safe", "hint", "tick"}, got)
}

func TestManualStopBeforeFire(t *testing.T) {
	m := NewManual()
	fired := false
	tm := m.After(time.Second, func() { fired = true })
	require.Equal(t, 1, m.Pending())

	assert.True(t, tm.Stop())
	m.Advance(time.Minute)
	assert.False(t, fired)
	assert.Zero(t, m.Pending())
}

func TestManualScheduleFromCallback(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	m.After(time.Second, func() {
		at = append(at, m.Now())
		m.After(time.Second, func() { at = append(at, m.Now()) })
	})

	m.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, at)
}

func TestRealAfter(t *testing.T) {
	done := make(chan struct{})
	Real{}.After(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestRealEvery(t *testing.T) {
	var ticks atomic.Int32
	tm := Real{}.Every(time.Millisecond, func() { ticks.Add(1) })
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
}
