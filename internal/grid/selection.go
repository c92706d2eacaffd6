package grid

import (
	"slices"

	"github.com/roach88/shiftgrid/internal/record"
)

// Selection is an insertion-ordered set of record ids.
//
// It survives filter, sort, page and snapshot changes. Ids whose records have
// disappeared stay in the set and are dropped only by Resolve; nothing prunes
// them eagerly.
type Selection struct {
	ids   []record.ID
	index map[record.ID]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{index: make(map[record.ID]struct{})}
}

// IsSelected reports membership.
func (s *Selection) IsSelected(id record.ID) bool {
	_, ok := s.index[id]
	return ok
}

// Add selects id. Returns false if it was already selected.
func (s *Selection) Add(id record.ID) bool {
	if s.IsSelected(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove deselects id. Returns false if it was not selected.
func (s *Selection) Remove(id record.ID) bool {
	if !s.IsSelected(id) {
		return false
	}
	delete(s.index, id)
	s.ids = slices.DeleteFunc(s.ids, func(x record.ID) bool { return x == id })
	return true
}

// Toggle flips membership and reports the new state.
func (s *Selection) Toggle(id record.ID) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// AddAll selects every id.
func (s *Selection) AddAll(ids []record.ID) {
	for _, id := range ids {
		s.Add(id)
	}
}

// RemoveAll deselects every id.
func (s *Selection) RemoveAll(ids []record.ID) {
	for _, id := range ids {
		s.Remove(id)
	}
}

// AllSelected reports whether every id is selected. False for an empty list.
func (s *Selection) AllSelected(ids []record.ID) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	clear(s.index)
}

// Len returns the number of selected ids, including stale ones.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []record.ID {
	return slices.Clone(s.ids)
}

// Resolve returns the selected records present in rows, in row-store order.
// Selected ids missing from the snapshot are skipped without error.
func (s *Selection) Resolve(rows *RowStore) []record.Record {
	var out []record.Record
	for _, r := range rows.Records() {
		if s.IsSelected(r.ID) {
			out = append(out, r)
		}
	}
	return out
}
