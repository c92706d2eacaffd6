package config

import (
	"fmt"

	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
)

// IDFieldOrDefault returns the configured identifier field or "id".
func (t *TableConfig) IDFieldOrDefault() string {
	if t.IDField == "" {
		return record.DefaultIDField
	}
	return t.IDField
}

// GridColumns converts the column definitions to engine columns.
func (t *TableConfig) GridColumns() ([]grid.Column, error) {
	cols := make([]grid.Column, len(t.Columns))
	for i, c := range t.Columns {
		format, err := grid.ParseFormat(c.Format)
		if err != nil {
			return nil, fmt.Errorf("table %q column %q: %w", t.Name, c.Key, err)
		}
		cols[i] = grid.Column{
			Key:        c.Key,
			Header:     c.Header,
			Sortable:   c.Sortable,
			Filterable: c.Filterable,
			Width:      c.Width,
			Order:      c.Order,
			Hidden:     c.Hidden,
			Render:     format.Renderer(),
		}
	}
	return cols, nil
}

// Build assembles a fresh column model and view options for the table.
func (t *TableConfig) Build() (*grid.ColumnModel, grid.Options, error) {
	cols, err := t.GridColumns()
	if err != nil {
		return nil, grid.Options{}, err
	}
	model, err := grid.NewColumnModel(cols)
	if err != nil {
		return nil, grid.Options{}, fmt.Errorf("table %q: %w", t.Name, err)
	}

	opts := grid.Options{PageSize: t.PageSize}
	if t.Window != nil {
		opts.Window = &grid.Window{
			RowHeight:      t.Window.RowHeight,
			ViewportHeight: t.Window.ViewportHeight,
			Overscan:       t.Window.Overscan,
		}
	}
	if t.DefaultSort != nil {
		dir, err := grid.ParseDirection(t.DefaultSort.Direction)
		if err != nil {
			return nil, grid.Options{}, fmt.Errorf("table %q default sort: %w", t.Name, err)
		}
		opts.Sort = &grid.SortState{Key: t.DefaultSort.Key, Direction: dir}
	}
	return model, opts, nil
}

// NewView builds a view over records using the table definition.
func (t *TableConfig) NewView(records []record.Record) (*grid.View, error) {
	model, opts, err := t.Build()
	if err != nil {
		return nil, err
	}
	rows, err := grid.NewRowStore(records)
	if err != nil {
		return nil, err
	}
	return grid.NewView(rows, model, opts)
}

// Infer builds a table definition from the fields present in records: every
// field becomes a sortable, filterable text column, the identifier first.
func Infer(name, idField string, records []record.Record) TableConfig {
	if idField == "" {
		idField = record.DefaultIDField
	}
	t := TableConfig{Name: name, IDField: idField}
	seen := map[string]bool{idField: true}
	t.Columns = append(t.Columns, ColumnConfig{Key: idField, Sortable: true, Filterable: true})
	for _, r := range records {
		for _, k := range r.Keys() {
			if seen[k] {
				continue
			}
			seen[k] = true
			t.Columns = append(t.Columns, ColumnConfig{Key: k, Sortable: true, Filterable: true})
		}
	}
	return t
}
