package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/shiftgrid/internal/record"
)

// Direction is a sort direction.
type Direction int

const (
	// Asc sorts ascending.
	Asc Direction = iota
	// Desc sorts descending.
	Desc
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ParseDirection parses "asc" or "desc" (case-insensitive). Empty is Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("invalid sort direction %q: must be asc or desc", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SortState is the single active sort. A nil *SortState means no sort.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// NextSort returns the state after clicking the header of key.
// A new key sorts ascending; the same key toggles asc and desc.
// Once a sort is set it never clears back to nil.
func NextSort(current *SortState, key string) *SortState {
	if current == nil || current.Key != key {
		return &SortState{Key: key, Direction: Asc}
	}
	next := Asc
	if current.Direction == Asc {
		next = Desc
	}
	return &SortState{Key: key, Direction: next}
}

// Sort returns a new, stably ordered slice.
// A nil state preserves input order. Null values sort last in both directions;
// Desc reverses only the comparison between non-null values.
func Sort(records []record.Record, state *SortState) []record.Record {
	out := slices.Clone(records)
	if state == nil {
		return out
	}

	key := state.Key
	desc := state.Direction == Desc
	slices.SortStableFunc(out, func(a, b record.Record) int {
		av, bv := a.Get(key), b.Get(key)
		an, bn := record.IsNull(av), record.IsNull(bv)
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		}
		c := record.Compare(av, bv)
		if desc {
			return -c
		}
		return c
	})
	return out
}
