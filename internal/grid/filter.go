package grid

import (
	"maps"

	"github.com/roach88/shiftgrid/internal/record"
)

// FilterState is the free-text global filter plus per-field constraints.
// An empty string or absent key means no constraint.
type FilterState struct {
	Global string            `json:"global,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// IsEmpty reports whether the state imposes no constraint.
func (s FilterState) IsEmpty() bool {
	if s.Global != "" {
		return false
	}
	for _, v := range s.Fields {
		if v != "" {
			return false
		}
	}
	return true
}

// WithGlobal returns a copy with the global text replaced.
func (s FilterState) WithGlobal(text string) FilterState {
	return FilterState{Global: text, Fields: maps.Clone(s.Fields)}
}

// WithField returns a copy with one per-field constraint replaced.
// An empty value removes the constraint.
func (s FilterState) WithField(field, value string) FilterState {
	fields := maps.Clone(s.Fields)
	if fields == nil {
		fields = make(map[string]string)
	}
	if value == "" {
		delete(fields, field)
	} else {
		fields[field] = value
	}
	return FilterState{Global: s.Global, Fields: fields}
}

// Filter returns the records matching state.
//
// Every non-empty per-field constraint must be a case-insensitive substring of
// that field's textual value, and a non-empty global text must be a substring
// of at least one searchKeys field. Null and absent fields never match a
// non-empty query, so constraints on unknown fields exclude every record.
// An empty state returns records unchanged.
func Filter(records []record.Record, searchKeys []string, state FilterState) []record.Record {
	if state.IsEmpty() {
		return records
	}

	f := record.NewFolder()

	var constraints []fieldConstraint
	for field, value := range state.Fields {
		if value != "" {
			constraints = append(constraints, fieldConstraint{field: field, needle: f.Fold(value)})
		}
	}

	var global string
	if state.Global != "" {
		global = f.Fold(state.Global)
	}

	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if matchFields(f, r, constraints) && matchGlobal(f, r, searchKeys, global) {
			out = append(out, r)
		}
	}
	return out
}

// fieldConstraint is a per-field filter with its needle already folded.
type fieldConstraint struct {
	field  string
	needle string
}

func matchFields(f *record.Folder, r record.Record, constraints []fieldConstraint) bool {
	for _, c := range constraints {
		if !f.Contains(r.Get(c.field), c.needle) {
			return false
		}
	}
	return true
}

func matchGlobal(f *record.Folder, r record.Record, searchKeys []string, needle string) bool {
	if needle == "" {
		return true
	}
	for _, key := range searchKeys {
		if f.Contains(r.Get(key), needle) {
			return true
		}
	}
	return false
}
