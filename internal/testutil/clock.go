package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/shiftgrid/internal/grid"
)

// FakeClock is a manually advanced grid.Clock for tests.
//
// Timers scheduled with AfterFunc fire synchronously inside Advance, in
// deadline order (ties in scheduling order), on the goroutine calling Advance.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
// Timer callbacks run without the mutex held so they may schedule new timers.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int64
	timers []*fakeTimer
}

// fakeTimer is a pending FakeClock callback.
type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	seq      int64
	fn       func()
	stopped  bool
	fired    bool
}

// NewFakeClock creates a clock reading start. A zero start uses a fixed
// reference time so tests never depend on the wall clock.
func NewFakeClock(start time.Time) *FakeClock {
	if start.IsZero() {
		start = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	}
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) grid.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that comes due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers that have neither fired nor stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// nextDueLocked removes and returns the earliest live timer due by target.
func (c *FakeClock) nextDueLocked(target time.Time) *fakeTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].deadline.Equal(c.timers[j].deadline) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})
	if len(c.timers) == 0 || c.timers[0].deadline.After(target) {
		return nil
	}
	return c.timers[0]
}

// Stop implements grid.Timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
