package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shiftgrid/internal/record"
)

func TestSelectionToggleIsInvolution(t *testing.T) {
	s := NewSelection()
	id := record.IntID(7)

	assert.True(t, s.Toggle(id))
	assert.True(t, s.IsSelected(id))
	assert.False(t, s.Toggle(id))
	assert.False(t, s.IsSelected(id))
	assert.Equal(t, 0, s.Len())
}

func TestSelectionInsertionOrder(t *testing.T) {
	s := NewSelection()
	s.Add(record.IntID(3))
	s.Add(record.StringID("b"))
	s.Add(record.IntID(1))
	assert.False(t, s.Add(record.IntID(3)))

	s.Remove(record.StringID("b"))
	assert.Equal(t, []record.ID{record.IntID(3), record.IntID(1)}, s.IDs())
}

func TestSelectionIntAndStringIDsDiffer(t *testing.T) {
	s := NewSelection()
	s.Add(record.IntID(1))
	assert.False(t, s.IsSelected(record.StringID("1")))
}

func TestSelectionAllSelected(t *testing.T) {
	s := NewSelection()
	ids := []record.ID{record.IntID(1), record.IntID(2)}

	assert.False(t, s.AllSelected(nil), "empty list is never all selected")
	assert.False(t, s.AllSelected(ids))

	s.AddAll(ids)
	assert.True(t, s.AllSelected(ids))

	s.RemoveAll(ids[:1])
	assert.False(t, s.AllSelected(ids))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsSelected(ids[1]))
}

func TestSelectionSurvivesReplaceAndResolveDropsStale(t *testing.T) {
	rows, err := NewRowStore(sampleRecords())
	require.NoError(t, err)

	s := NewSelection()
	s.Add(record.IntID(3))
	s.Add(record.IntID(1))

	require.NoError(t, rows.Replace([]record.Record{person(1, "Bob"), person(4, "Dot")}))

	assert.True(t, s.IsSelected(record.IntID(3)), "stale ids are not pruned")
	assert.Equal(t, 2, s.Len())

	resolved := s.Resolve(rows)
	assert.Equal(t, []string{"1"}, idStrings(resolved))
}

func TestSelectionResolveUsesRowStoreOrder(t *testing.T) {
	rows, err := NewRowStore(sampleRecords())
	require.NoError(t, err)

	s := NewSelection()
	s.Add(record.IntID(3))
	s.Add(record.IntID(1))

	assert.Equal(t, []string{"1", "3"}, idStrings(s.Resolve(rows)))
}
