package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/shiftgrid/internal/record"
)

func numbered(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = person(int64(i+1), "p")
	}
	return out
}

func TestPaginateScenario(t *testing.T) {
	// pageSize=2, page=2 over 5 records returns the third and fourth
	got := Paginate(numbered(5), 2, 2)
	assert.Equal(t, []string{"3", "4"}, idStrings(got))
}

func TestPaginateLastPartialPage(t *testing.T) {
	got := Paginate(numbered(5), 3, 2)
	assert.Equal(t, []string{"5"}, idStrings(got))
}

func TestPaginateOutOfRangeIsEmpty(t *testing.T) {
	assert.Empty(t, Paginate(numbered(5), 4, 2))
	assert.Empty(t, Paginate(numbered(5), 99, 2))
	assert.Empty(t, Paginate(numbered(5), 0, 2))
	assert.Empty(t, Paginate(numbered(5), -1, 2))
	assert.Empty(t, Paginate(numbered(5), 1, 0))
	assert.Empty(t, Paginate(nil, 1, 10))
}

func TestPaginateRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5, 10, 11, 37} {
		for _, size := range []int{1, 2, 3, 10, 50} {
			records := numbered(n)
			var joined []record.Record
			for p := 1; p <= LastPage(n, size); p++ {
				joined = append(joined, Paginate(records, p, size)...)
			}
			if diff := cmp.Diff(idStrings(records), idStrings(joined)); diff != "" {
				t.Errorf("n=%d size=%d pages did not reconstruct input (-want +got):\n%s", n, size, diff)
			}
		}
	}
}

func TestLastPage(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 2, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LastPage(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestPaginationClamp(t *testing.T) {
	p := Pagination{Page: 99, PageSize: 10, Total: 25}
	assert.False(t, p.InRange())
	assert.Equal(t, 3, p.Clamp().Page)
	assert.Equal(t, 99, p.Page, "Clamp returns a copy")

	p = Pagination{Page: 0, PageSize: 10, Total: 25}
	assert.Equal(t, 1, p.Clamp().Page)

	p = Pagination{Page: 1, PageSize: 10, Total: 0}
	assert.True(t, p.InRange(), "one page exists when total is zero")
}

func TestNewPaginationDefaults(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: DefaultPageSize}, NewPagination(0))
	assert.Equal(t, Pagination{Page: 1, PageSize: 25}, NewPagination(25))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, 0, Offset(0, 10))
}
