package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
)

func sampleResult() *Result {
	r := NewResult()
	r.Trace = []TraceEvent{
		{
			Step: 0, Action: "load", Detail: "3 records",
			Visible: []record.ID{record.IntID(1), record.IntID(2)}, Total: 3, Page: 1, LastPage: 2,
			Selected: []record.ID{}, Columns: []string{"id", "name"},
		},
		{
			Step: 1, Action: "scroll", Detail: "10",
			Visible: []record.ID{record.IntID(1), record.IntID(2)}, Total: 3, Page: 1, LastPage: 2,
			Selected: []record.ID{record.StringID("a")}, Columns: []string{"name"},
			Window:   &grid.Range{Start: 1, End: 3, TotalHeight: 30, OffsetY: 10},
			Rendered: []record.ID{record.IntID(2), record.IntID(3)},
		},
	}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	assertions := []Assertion{
		{Type: AssertVisibleIDs, IDs: []any{1, 2}},
		{Type: AssertSelectedIDs, IDs: []any{"a"}},
		{Type: AssertSelectedIDs, At: intp(0), IDs: []any{}},
		{Type: AssertRenderedIDs, IDs: []any{2, 3}},
		{Type: AssertPage, Value: intp(1)},
		{Type: AssertLastPage, Value: intp(2)},
		{Type: AssertTotal, Value: intp(3)},
		{Type: AssertWindow, Start: intp(1), End: intp(3)},
		{Type: AssertColumns, Keys: []string{"name"}},
		{Type: AssertColumns, At: intp(0), Keys: []string{"id", "name"}},
	}
	assert.Empty(t, EvaluateAssertions(sampleResult(), assertions))
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      []string
	}{
		{
			name:      "visible order matters",
			assertion: Assertion{Type: AssertVisibleIDs, IDs: []any{2, 1}},
			want:      []string{"Assertion failed: visible_ids at step 1", "Expected: [2 1]", "Actual: [1 2]"},
		},
		{
			name:      "string id is not an int id",
			assertion: Assertion{Type: AssertSelectedIDs, IDs: []any{1}},
			want:      []string{"Expected: [1]", `Actual: ["a"]`},
		},
		{
			name:      "rendered without window",
			assertion: Assertion{Type: AssertRenderedIDs, At: intp(0), IDs: []any{}},
			want:      []string{"table has no window"},
		},
		{
			name:      "page",
			assertion: Assertion{Type: AssertPage, Value: intp(2)},
			want:      []string{"Expected: 2", "Actual: 1"},
		},
		{
			name:      "total at load",
			assertion: Assertion{Type: AssertTotal, At: intp(0), Value: intp(9)},
			want:      []string{"total at step 0", "State after load 3 records"},
		},
		{
			name:      "window",
			assertion: Assertion{Type: AssertWindow, Start: intp(0), End: intp(2)},
			want:      []string{"Expected: [0, 2)", "Actual: [1, 3)"},
		},
		{
			name:      "window missing",
			assertion: Assertion{Type: AssertWindow, At: intp(0), Start: intp(0), End: intp(2)},
			want:      []string{"table has no window"},
		},
		{
			name:      "columns",
			assertion: Assertion{Type: AssertColumns, Keys: []string{"id"}},
			want:      []string{"Expected: [id]", "Actual: [name]"},
		},
		{
			name:      "at out of range",
			assertion: Assertion{Type: AssertTotal, At: intp(5), Value: intp(3)},
			want:      []string{"no trace event to check"},
		},
		{
			name:      "bad id",
			assertion: Assertion{Type: AssertVisibleIDs, IDs: []any{1.5}},
			want:      []string{"ids[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], "assertions[0]")
			for _, w := range tt.want {
				assert.Contains(t, errs[0], w)
			}
		})
	}
}

func TestEvaluateAssertions_EmptyTrace(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: AssertTotal, Value: intp(0)}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no trace event to check")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
