package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shiftgrid/internal/record"
)

func newSampleView(t *testing.T, opts Options) *View {
	t.Helper()
	rows, err := NewRowStore(sampleRecords())
	require.NoError(t, err)
	cols, err := NewColumnModel(sampleColumns())
	require.NoError(t, err)
	v, err := NewView(rows, cols, opts)
	require.NoError(t, err)
	return v
}

func TestNewViewRejectsNilAndBadWindow(t *testing.T) {
	rows, err := NewRowStore(nil)
	require.NoError(t, err)
	cols, err := NewColumnModel(sampleColumns())
	require.NoError(t, err)

	_, err = NewView(nil, cols, Options{})
	require.Error(t, err)
	_, err = NewView(rows, nil, Options{})
	require.Error(t, err)

	_, err = NewView(rows, cols, Options{Window: &Window{RowHeight: 0, ViewportHeight: 10}})
	assert.True(t, IsConfigError(err, ErrCodeInvalidWindow))
}

func TestViewSortScenario(t *testing.T) {
	v := newSampleView(t, Options{})
	require.True(t, v.ToggleSort("name"))

	res := v.Result()
	assert.Equal(t, []string{"Amy", "Bob", "Cid"}, names(res.Rows))

	require.True(t, v.ToggleSort("name"))
	assert.Equal(t, []string{"Cid", "Bob", "Amy"}, names(v.Result().Rows))
}

func TestViewToggleSortIgnoresUnsortable(t *testing.T) {
	rows, err := NewRowStore(sampleRecords())
	require.NoError(t, err)
	cols, err := NewColumnModel([]Column{{Key: "id"}, {Key: "name", Sortable: false}})
	require.NoError(t, err)
	v, err := NewView(rows, cols, Options{})
	require.NoError(t, err)

	assert.False(t, v.ToggleSort("name"))
	assert.False(t, v.ToggleSort("missing"))
	assert.Nil(t, v.Sort())
}

func TestViewGlobalFilterScenario(t *testing.T) {
	v := newSampleView(t, Options{})
	v.SetGlobalFilter("b")

	res := v.Result()
	assert.Equal(t, []string{"Bob"}, names(res.Rows))
	assert.Equal(t, 1, res.Total)
}

func TestViewPaginationScenario(t *testing.T) {
	rows, err := NewRowStore(numbered(5))
	require.NoError(t, err)
	cols, err := NewColumnModel(sampleColumns())
	require.NoError(t, err)
	v, err := NewView(rows, cols, Options{PageSize: 2})
	require.NoError(t, err)

	v.SetPage(2)
	res := v.Result()
	assert.Equal(t, []string{"3", "4"}, idStrings(res.Rows))
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.LastPage)

	v.SetPage(9)
	res = v.Result()
	assert.Empty(t, res.Rows, "out of range pages are not clamped")
	assert.Equal(t, 9, res.Page)

	v.SetPage(-3)
	assert.Equal(t, 1, v.Pagination().Page)
}

func TestViewSetPageSize(t *testing.T) {
	v := newSampleView(t, Options{PageSize: 1})
	v.SetPage(3)

	require.ErrorIs(t, v.SetPageSize(0), ErrInvalidPageSize)
	require.NoError(t, v.SetPageSize(2))

	p := v.Pagination()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 2, p.PageSize)
	assert.Equal(t, 3, p.Total)
}

func TestViewSelectionPersistsAcrossFilterScenario(t *testing.T) {
	v := newSampleView(t, Options{})
	require.True(t, v.ToggleSelection(record.IntID(2)))

	v.SetGlobalFilter("bob")
	assert.NotContains(t, idStrings(v.Result().Rows), "2")
	assert.True(t, v.Selection().IsSelected(record.IntID(2)))

	v.ClearFilters()
	assert.True(t, v.Selection().IsSelected(record.IntID(2)))
	assert.Equal(t, []string{"2"}, idStrings(v.Result().Selected))
}

func TestViewReplaceKeepsState(t *testing.T) {
	v := newSampleView(t, Options{PageSize: 2})
	v.ToggleSelection(record.IntID(3))
	v.SetGlobalFilter("i")
	v.SetPage(2)

	require.NoError(t, v.Replace([]record.Record{person(3, "Cid"), person(4, "Tim"), person(5, "Kim"), person(6, "Ida")}))

	assert.Equal(t, "i", v.Filters().Global)
	assert.Equal(t, 2, v.Pagination().Page)
	res := v.Result()
	assert.Equal(t, []string{"5", "6"}, idStrings(res.Rows))
	assert.Equal(t, []string{"3"}, idStrings(res.Selected))
}

func TestViewTogglePageSelection(t *testing.T) {
	v := newSampleView(t, Options{PageSize: 2})

	v.TogglePageSelection()
	assert.ElementsMatch(t, []record.ID{record.IntID(1), record.IntID(2)}, v.Selection().IDs())

	v.TogglePageSelection()
	assert.Equal(t, 0, v.Selection().Len())
}

func TestViewFieldFilters(t *testing.T) {
	v := newSampleView(t, Options{})
	v.SetFieldFilter("name", "y")
	assert.Equal(t, []string{"Amy"}, names(v.Processed()))

	state := FilterState{Fields: map[string]string{"name": "i"}}
	v.SetFilters(state)
	state.Fields["name"] = "zzz"
	assert.Equal(t, []string{"Cid"}, names(v.Processed()), "SetFilters copies the map")

	v.SetFieldFilter("name", "")
	assert.True(t, v.Filters().IsEmpty())
}

func TestViewGlobalFilterSearchesHiddenFilterableColumns(t *testing.T) {
	v := newSampleView(t, Options{})
	v.Columns().Toggle("name")
	v.SetGlobalFilter("amy")

	res := v.Result()
	assert.Equal(t, []string{"2"}, idStrings(res.Rows))
	assert.Len(t, res.Columns, 1)
}

func TestViewVirtual(t *testing.T) {
	rows, err := NewRowStore(numbered(1000))
	require.NoError(t, err)
	cols, err := NewColumnModel(sampleColumns())
	require.NoError(t, err)

	w := &Window{RowHeight: 50, ViewportHeight: 500, Overscan: 2}
	v, err := NewView(rows, cols, Options{Window: w})
	require.NoError(t, err)
	w.RowHeight = 1

	res, err := v.Virtual(600)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Range.Start)
	assert.Equal(t, 24, res.Range.End)
	assert.Len(t, res.Rows, 14)
	assert.Equal(t, "11", res.Rows[0].ID.String())
	assert.Equal(t, 1000, res.Total)

	plain := newSampleView(t, Options{})
	_, err = plain.Virtual(0)
	require.Error(t, err)
}

func TestViewSortAccessorReturnsCopy(t *testing.T) {
	v := newSampleView(t, Options{Sort: &SortState{Key: "name", Direction: Desc}})
	s := v.Sort()
	require.NotNil(t, s)
	s.Direction = Asc
	assert.Equal(t, Desc, v.Sort().Direction)

	v.SetSort(nil)
	assert.Nil(t, v.Sort())
	assert.Equal(t, []string{"Bob", "Amy", "Cid"}, names(v.Processed()))
}
