package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/shiftgrid/internal/record"
)

const (
	idKindInt    = "int"
	idKindString = "string"
)

// encodedRecord is a record in its stored form.
type encodedRecord struct {
	id   string
	kind string
	doc  string
	text string
}

// encodeRecord serializes the typed fields to doc and the folded textual form
// of every non-null field to text.
func encodeRecord(r record.Record) (encodedRecord, error) {
	doc, err := json.Marshal(r.ToMap())
	if err != nil {
		return encodedRecord{}, fmt.Errorf("marshal doc: %w", err)
	}

	folder := record.NewFolder()
	folded := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		if s, ok := record.Stringify(v); ok {
			folded[k] = folder.Fold(s)
		}
	}
	text, err := json.Marshal(folded)
	if err != nil {
		return encodedRecord{}, fmt.Errorf("marshal text: %w", err)
	}

	kind := idKindString
	if r.ID.IsInt() {
		kind = idKindInt
	}
	return encodedRecord{id: r.ID.String(), kind: kind, doc: string(doc), text: string(text)}, nil
}

// decodeRecord rebuilds a record from its stored id and doc.
func decodeRecord(id, kind, doc string) (record.Record, error) {
	var rid record.ID
	switch kind {
	case idKindInt:
		parsed := record.ParseID(id)
		if !parsed.IsInt() {
			return record.Record{}, fmt.Errorf("record id %q: not an integer", id)
		}
		rid = parsed
	case idKindString:
		rid = record.StringID(id)
	default:
		return record.Record{}, fmt.Errorf("record id %q: unknown id kind %q", id, kind)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return record.Record{}, fmt.Errorf("record %s: unmarshal doc: %w", id, err)
	}

	fields := make(map[string]record.Value, len(m))
	for k, raw := range m {
		v, err := record.FromAny(raw)
		if err != nil {
			return record.Record{}, fmt.Errorf("record %s: field %q: %w", id, k, err)
		}
		fields[k] = v
	}
	return record.New(rid, fields), nil
}
