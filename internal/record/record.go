package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// DefaultIDField is the field used as the identifier when none is configured.
const DefaultIDField = "id"

// ErrDuplicateID is returned when two records in one snapshot share an ID.
var ErrDuplicateID = errors.New("duplicate record id")

// Record is an application-defined row with a stable identifier.
// Fields includes the identifier field itself so it can be shown, filtered and
// sorted like any other column.
type Record struct {
	ID     ID
	Fields map[string]Value
}

// New creates a Record. A nil fields map is replaced with an empty one.
func New(id ID, fields map[string]Value) Record {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Record{ID: id, Fields: fields}
}

// Get returns the named field, or Null if the field is absent.
func (r Record) Get(field string) Value {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return Null{}
	}
	return v
}

// Keys returns the record's field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ToMap returns the record as plain Go values for encoding.
func (r Record) ToMap() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		m[k] = ToAny(v)
	}
	return m
}

// MarshalJSON encodes the record's fields as a JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// FromMap builds a Record from decoded values, taking the identifier from idField.
func FromMap(m map[string]any, idField string) (Record, error) {
	if idField == "" {
		idField = DefaultIDField
	}
	raw, ok := m[idField]
	if !ok || raw == nil {
		return Record{}, fmt.Errorf("missing id field %q", idField)
	}
	id, err := IDFromAny(raw)
	if err != nil {
		return Record{}, fmt.Errorf("field %q: %w", idField, err)
	}

	fields := make(map[string]Value, len(m))
	for k, elem := range m {
		v, err := FromAny(elem)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = v
	}
	return Record{ID: id, Fields: fields}, nil
}

// DecodeJSON decodes a JSON array of objects into records.
// Numbers are decoded with UseNumber so integers stay Int.
func DecodeJSON(data []byte, idField string) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := FromMap(row, idField)
		if err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CheckUnique returns ErrDuplicateID (wrapped with the offending id) if two
// records share an identifier.
func CheckUnique(records []Record) error {
	seen := make(map[ID]int, len(records))
	for i, r := range records {
		if prev, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %s (records %d and %d)", ErrDuplicateID, r.ID, prev, i)
		}
		seen[r.ID] = i
	}
	return nil
}

// IDs returns the identifiers of records in order.
func IDs(records []Record) []ID {
	ids := make([]ID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
