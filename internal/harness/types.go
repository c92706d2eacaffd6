package harness

import (
	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
)

// TraceEvent is the view state after one step.
// Step 0 is the state right after the snapshot is loaded.
type TraceEvent struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`

	Visible  []record.ID `json:"visible"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	LastPage int         `json:"last_page"`
	Selected []record.ID `json:"selected"`
	Columns  []string    `json:"columns"`

	// Window and Rendered are set when the table has a virtual window.
	Window   *grid.Range `json:"window,omitempty"`
	Rendered []record.ID `json:"rendered,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: no unexpected step errors and no
	// failed assertions.
	Pass bool `json:"pass"`

	// Trace holds one event per step, starting with the load.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Final returns the last trace event.
func (r *Result) Final() (TraceEvent, bool) {
	if len(r.Trace) == 0 {
		return TraceEvent{}, false
	}
	return r.Trace[len(r.Trace)-1], true
}
