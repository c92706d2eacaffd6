package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_StartsAtReferenceTime(t *testing.T) {
	clock := NewFakeClock(time.Time{})
	assert.Equal(t, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), clock.Now())
}

func TestFakeClock_AdvanceMovesNow(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, start.Add(250*time.Millisecond), clock.Now())
}

func TestFakeClock_FiresDueTimersInOrder(t *testing.T) {
	clock := NewFakeClock(time.Time{})
	var fired []string

	clock.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "b") })
	clock.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	clock.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "c") })
	clock.AfterFunc(time.Second, func() { fired = append(fired, "late") })

	clock.Advance(300 * time.Millisecond)

	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, 1, clock.Pending())
}

func TestFakeClock_CallbackSeesDeadline(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	var seen time.Time

	clock.AfterFunc(100*time.Millisecond, func() { seen = clock.Now() })
	clock.Advance(time.Second)

	assert.Equal(t, start.Add(100*time.Millisecond), seen)
	assert.Equal(t, start.Add(time.Second), clock.Now())
}

func TestFakeClock_StopPreventsFire(t *testing.T) {
	clock := NewFakeClock(time.Time{})
	fired := false

	timer := clock.AfterFunc(time.Millisecond, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports already stopped")

	clock.Advance(time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, clock.Pending())
}

func TestFakeClock_CallbackMaySchedule(t *testing.T) {
	clock := NewFakeClock(time.Time{})
	count := 0

	var tick func()
	tick = func() {
		count++
		if count < 3 {
			clock.AfterFunc(10*time.Millisecond, tick)
		}
	}
	clock.AfterFunc(10*time.Millisecond, tick)

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, count)
}

func TestSequenceIDGenerator(t *testing.T) {
	gen := NewSequenceIDGenerator("")
	assert.Equal(t, "snap-00000001", gen.Generate())
	assert.Equal(t, "snap-00000002", gen.Generate())

	gen.Reset()
	assert.Equal(t, "snap-00000001", gen.Generate())

	custom := NewSequenceIDGenerator("shift")
	assert.Equal(t, "shift-00000001", custom.Generate())
}
