package grid

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/roach88/shiftgrid/internal/record"
)

// Window computes the visible sub-range of a uniformly sized row list.
type Window struct {
	RowHeight      float64 `json:"row_height"`
	ViewportHeight float64 `json:"viewport_height"`
	Overscan       int     `json:"overscan"`
}

// Range is the part of the list to render.
type Range struct {
	// Start is the first rendered index (inclusive).
	Start int `json:"start"`
	// End is one past the last rendered index.
	End int `json:"end"`
	// TotalHeight sizes the scroll spacer: length * RowHeight.
	TotalHeight float64 `json:"total_height"`
	// OffsetY is where the first rendered row sits: Start * RowHeight.
	OffsetY float64 `json:"offset_y"`
}

// Len returns the number of rendered rows.
func (r Range) Len() int {
	return r.End - r.Start
}

// Validate checks that heights are positive and overscan is not negative.
func (w Window) Validate() error {
	switch {
	case w.RowHeight <= 0:
		return &ConfigError{Code: ErrCodeInvalidWindow, Field: "window.row_height", Message: "row height must be positive"}
	case w.ViewportHeight <= 0:
		return &ConfigError{Code: ErrCodeInvalidWindow, Field: "window.viewport_height", Message: "viewport height must be positive"}
	case w.Overscan < 0:
		return &ConfigError{Code: ErrCodeInvalidWindow, Field: "window.overscan", Message: fmt.Sprintf("overscan must not be negative, got %d", w.Overscan)}
	}
	return nil
}

// Range computes the rendered range for a list of length rows scrolled to
// scrollTop:
//
//	start = max(0, floor(scrollTop/rowHeight) - overscan)
//	end   = min(length, ceil((scrollTop+viewportHeight)/rowHeight) + overscan)
//
// The result always satisfies 0 <= Start <= End <= length. A window with a
// non-positive row height renders nothing.
func (w Window) Range(length int, scrollTop float64) Range {
	if length < 0 {
		length = 0
	}
	if w.RowHeight <= 0 {
		return Range{}
	}

	overscan := max(w.Overscan, 0)
	start := int(math.Floor(scrollTop/w.RowHeight)) - overscan
	end := int(math.Ceil((scrollTop+w.ViewportHeight)/w.RowHeight)) + overscan

	start = min(max(start, 0), length)
	end = max(min(end, length), start)

	return Range{
		Start:       start,
		End:         end,
		TotalHeight: float64(length) * w.RowHeight,
		OffsetY:     float64(start) * w.RowHeight,
	}
}

// MaxScrollTop returns the largest scroll offset that still fills the viewport.
func (w Window) MaxScrollTop(length int) float64 {
	return math.Max(0, float64(length)*w.RowHeight-w.ViewportHeight)
}

// Slice returns records[r.Start:r.End], clipped to bounds.
func Slice(records []record.Record, r Range) []record.Record {
	start := min(max(r.Start, 0), len(records))
	end := min(max(r.End, start), len(records))
	return records[start:end]
}

// ScrollTracker derives instantaneous scroll velocity from observed offsets.
// The velocity is advisory; nothing depends on it for correctness.
type ScrollTracker struct {
	mu       sync.Mutex
	clock    Clock
	offset   float64
	at       time.Time
	velocity float64
	seen     bool
}

// NewScrollTracker creates a tracker. A nil clock uses SystemClock.
func NewScrollTracker(clock Clock) *ScrollTracker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ScrollTracker{clock: clock}
}

// Observe records a new scroll offset.
func (t *ScrollTracker) Observe(offset float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if t.seen {
		if dt := now.Sub(t.at).Seconds(); dt > 0 {
			t.velocity = (offset - t.offset) / dt
		}
	}
	t.offset = offset
	t.at = now
	t.seen = true
}

// Offset returns the last observed offset.
func (t *ScrollTracker) Offset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

// Velocity returns the signed scroll velocity in pixels per second between the
// last two observations. Zero until two observations with elapsed time exist.
func (t *ScrollTracker) Velocity() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.velocity
}
