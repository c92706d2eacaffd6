package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/grid"
)

// viewFlags are the filter, sort, page and column flags shared by view and
// query.
type viewFlags struct {
	search   string
	where    []string
	sort     string
	dir      string
	page     int
	pageSize int
	columns  []string
}

func (f *viewFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.search, "search", "q", "", "global filter text")
	flags.StringArrayVar(&f.where, "where", nil, "per-field filter field=value (repeatable)")
	flags.StringVar(&f.sort, "sort", "", "sort column key")
	flags.StringVar(&f.dir, "dir", "asc", "sort direction (asc|desc)")
	flags.IntVar(&f.page, "page", 1, "page number (1-based)")
	flags.IntVar(&f.pageSize, "page-size", 0, "rows per page (default from table or settings)")
	flags.StringSliceVar(&f.columns, "columns", nil, "visible columns in order (comma-separated)")
}

// apply sets the flag state on a view. Sort and column keys must name known
// columns; a sort key must be sortable. defaultPageSize applies when
// --page-size is unset and is ignored when zero.
func (f *viewFlags) apply(v *grid.View, defaultPageSize int) error {
	if f.search != "" {
		v.SetGlobalFilter(f.search)
	}
	for _, w := range f.where {
		field, value, ok := strings.Cut(w, "=")
		if !ok || field == "" {
			return fmt.Errorf("invalid --where %q: want field=value", w)
		}
		v.SetFieldFilter(field, value)
	}

	if f.sort != "" {
		dir, err := grid.ParseDirection(f.dir)
		if err != nil {
			return err
		}
		c, ok := v.Columns().Column(f.sort)
		if !ok || !c.Sortable {
			return fmt.Errorf("column %q is unknown or not sortable", f.sort)
		}
		v.SetSort(&grid.SortState{Key: f.sort, Direction: dir})
	}

	size := f.pageSize
	if size == 0 {
		size = defaultPageSize
	}
	if size != 0 {
		if err := v.SetPageSize(size); err != nil {
			return err
		}
	}
	if f.page < 1 {
		return fmt.Errorf("invalid --page %d: must be at least 1", f.page)
	}
	v.SetPage(f.page)

	if len(f.columns) > 0 {
		return showColumns(v.Columns(), f.columns)
	}
	return nil
}

// showColumns makes exactly keys visible, in the given order.
func showColumns(m *grid.ColumnModel, keys []string) error {
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if _, ok := m.Column(key); !ok {
			return fmt.Errorf("unknown column %q", key)
		}
		if seen[key] {
			return fmt.Errorf("column %q listed twice", key)
		}
		seen[key] = true
	}

	m.HideAll()
	for i, key := range keys {
		m.Toggle(key)
		if order := m.Order(); order[i] != key {
			m.Move(key, order[i])
		}
	}
	return nil
}
