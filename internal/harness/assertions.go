package harness

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/shiftgrid/internal/record"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string     // Assertion type for categorization
	Step     int        // Trace step the assertion was checked against
	Expected string     // Human-readable expected outcome
	Actual   string     // Human-readable actual outcome
	Event    TraceEvent // The checked event, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s at step %d\n", e.Type, e.Step)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	ev := e.Event
	fmt.Fprintf(&buf, "\nState after %s", ev.Action)
	if ev.Detail != "" {
		fmt.Fprintf(&buf, " %s", ev.Detail)
	}
	fmt.Fprintf(&buf, ":\n  visible %s, page %d/%d, total %d\n",
		formatIDs(ev.Visible), ev.Page, ev.LastPage, ev.Total)

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	ev, ok := result.Final()
	if a.At != nil {
		ok = *a.At >= 0 && *a.At < len(result.Trace)
		if ok {
			ev = result.Trace[*a.At]
		}
	}
	if !ok {
		return fmt.Errorf("no trace event to check")
	}

	switch a.Type {
	case AssertVisibleIDs:
		return assertIDs(a.Type, ev, ev.Visible, a.IDs)
	case AssertSelectedIDs:
		return assertIDs(a.Type, ev, ev.Selected, a.IDs)
	case AssertRenderedIDs:
		if ev.Window == nil {
			return failure(a.Type, ev, "a virtual window", "table has no window")
		}
		return assertIDs(a.Type, ev, ev.Rendered, a.IDs)
	case AssertPage:
		return assertInt(a.Type, ev, ev.Page, *a.Value)
	case AssertLastPage:
		return assertInt(a.Type, ev, ev.LastPage, *a.Value)
	case AssertTotal:
		return assertInt(a.Type, ev, ev.Total, *a.Value)
	case AssertWindow:
		return assertWindow(ev, *a.Start, *a.End)
	case AssertColumns:
		if !slices.Equal(ev.Columns, a.Keys) {
			return failure(a.Type, ev, fmt.Sprintf("%v", a.Keys), fmt.Sprintf("%v", ev.Columns))
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func failure(kind string, ev TraceEvent, expected, actual string) error {
	return &AssertionError{Type: kind, Step: ev.Step, Expected: expected, Actual: actual, Event: ev}
}

// assertIDs compares identifiers in order. Integer and string identifiers
// never match each other.
func assertIDs(kind string, ev TraceEvent, actual []record.ID, raw []any) error {
	expected, err := convertIDs(raw)
	if err != nil {
		return err
	}
	if !slices.Equal(actual, expected) {
		return failure(kind, ev, formatIDs(expected), formatIDs(actual))
	}
	return nil
}

// formatIDs prints identifiers with string ids quoted, so 2 and "2" differ.
func formatIDs(ids []record.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if id.IsInt() {
			parts[i] = id.String()
		} else {
			parts[i] = strconv.Quote(id.String())
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func assertInt(kind string, ev TraceEvent, actual, expected int) error {
	if actual != expected {
		return failure(kind, ev, fmt.Sprintf("%d", expected), fmt.Sprintf("%d", actual))
	}
	return nil
}

func assertWindow(ev TraceEvent, start, end int) error {
	if ev.Window == nil {
		return failure(AssertWindow, ev, fmt.Sprintf("[%d, %d)", start, end), "table has no window")
	}
	if ev.Window.Start != start || ev.Window.End != end {
		return failure(AssertWindow, ev,
			fmt.Sprintf("[%d, %d)", start, end),
			fmt.Sprintf("[%d, %d)", ev.Window.Start, ev.Window.End))
	}
	return nil
}
