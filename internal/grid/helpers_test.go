package grid

import (
	"github.com/roach88/shiftgrid/internal/record"
)

// person builds a record with an integer id and a name.
func person(id int64, name string) record.Record {
	return record.New(record.IntID(id), map[string]record.Value{
		"id":   record.Int(id),
		"name": record.String(name),
	})
}

// row builds a record with an integer id and arbitrary fields.
func row(id int64, fields map[string]record.Value) record.Record {
	f := map[string]record.Value{"id": record.Int(id)}
	for k, v := range fields {
		f[k] = v
	}
	return record.New(record.IntID(id), f)
}

// names extracts the "name" field of each record.
func names(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		s, _ := record.Stringify(r.Get("name"))
		out[i] = s
	}
	return out
}

// idStrings extracts ids as strings for compact assertions.
func idStrings(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID.String()
	}
	return out
}

func sampleRecords() []record.Record {
	return []record.Record{person(1, "Bob"), person(2, "Amy"), person(3, "Cid")}
}

func sampleColumns() []Column {
	return []Column{
		{Key: "id", Header: "ID", Sortable: true},
		{Key: "name", Header: "Name", Sortable: true, Filterable: true},
	}
}
