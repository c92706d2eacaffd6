package grid

import (
	"slices"

	"github.com/roach88/shiftgrid/internal/record"
)

// RowStore holds the current, unfiltered record snapshot.
// The snapshot is replaced wholesale; callers must treat Records() as read-only.
type RowStore struct {
	records    []record.Record
	index      map[record.ID]int
	generation uint64
}

// NewRowStore creates a RowStore holding a copy of records.
// Returns ErrDuplicateID if two records share an identifier.
func NewRowStore(records []record.Record) (*RowStore, error) {
	s := &RowStore{}
	if err := s.Replace(records); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps in a new snapshot. On error the previous snapshot is kept.
func (s *RowStore) Replace(records []record.Record) error {
	if err := record.CheckUnique(records); err != nil {
		return err
	}

	index := make(map[record.ID]int, len(records))
	for i, r := range records {
		index[r.ID] = i
	}

	s.records = slices.Clone(records)
	s.index = index
	s.generation++
	return nil
}

// Records returns the snapshot in its original order.
func (s *RowStore) Records() []record.Record {
	return s.records
}

// Len returns the number of records in the snapshot.
func (s *RowStore) Len() int {
	return len(s.records)
}

// Lookup returns the record with the given id.
func (s *RowStore) Lookup(id record.ID) (record.Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return record.Record{}, false
	}
	return s.records[i], true
}

// Generation increments every time the snapshot is replaced.
func (s *RowStore) Generation() uint64 {
	return s.generation
}
