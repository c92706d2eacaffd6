package grid

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period applied to filter text edits.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays a call until no new call has arrived for a quiet period.
// A superseded call is dropped; there is no cancellation beyond that.
//
// Thread-safety: safe for concurrent use. Scheduled functions run on the
// clock's timer goroutine.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	clock   Clock
	timer   Timer
	pending func()
	gen     uint64
}

// NewDebouncer creates a Debouncer. A non-positive delay uses DefaultDebounce
// and a nil clock uses SystemClock.
func NewDebouncer(delay time.Duration, clock Clock) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{delay: delay, clock: clock}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Call schedules fn after the quiet period, replacing any pending call.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs the pending call if it has not been superseded.
// The generation check covers a timer that fired while Call held the lock.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop drops the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Flush runs the pending call immediately on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.cancelLocked()
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}
