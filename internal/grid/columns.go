package grid

import (
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/shiftgrid/internal/record"
)

// Column describes one field of the table.
type Column struct {
	Key        string
	Header     string
	Sortable   bool
	Filterable bool
	Width      int
	// Order positions the column in the initial order; ties keep declaration order.
	Order int
	// Hidden columns start out invisible.
	Hidden bool
	// Render formats values for display. Nil renders the plain textual form.
	Render Renderer
}

// Display renders the column's value for r.
func (c Column) Display(r record.Record) string {
	render := c.Render
	if render == nil {
		render = renderText
	}
	return render(r.Get(c.Key))
}

// Label returns the header, falling back to the key.
func (c Column) Label() string {
	if c.Header != "" {
		return c.Header
	}
	return c.Key
}

// ColumnModel is the ordered, show/hide-able list of columns.
type ColumnModel struct {
	columns  map[string]Column
	defaults []string
	order    []string
	visible  map[string]bool
}

// NewColumnModel validates and orders cols.
// Empty or duplicate keys are configuration errors.
func NewColumnModel(cols []Column) (*ColumnModel, error) {
	m := &ColumnModel{
		columns: make(map[string]Column, len(cols)),
		visible: make(map[string]bool, len(cols)),
	}

	for i, c := range cols {
		if c.Key == "" {
			return nil, &ConfigError{
				Code:    ErrCodeEmptyColumnKey,
				Field:   fmt.Sprintf("columns[%d].key", i),
				Message: "column key is required",
			}
		}
		if _, dup := m.columns[c.Key]; dup {
			return nil, &ConfigError{
				Code:    ErrCodeDuplicateColumn,
				Field:   fmt.Sprintf("columns[%d].key", i),
				Message: fmt.Sprintf("duplicate column key: %q", c.Key),
			}
		}
		m.columns[c.Key] = c
	}

	ordered := slices.Clone(cols)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	m.defaults = make([]string, len(ordered))
	for i, c := range ordered {
		m.defaults[i] = c.Key
	}
	m.Reset()
	return m, nil
}

// Reset restores the configured order and initial visibility.
func (m *ColumnModel) Reset() {
	m.order = slices.Clone(m.defaults)
	for _, key := range m.defaults {
		m.visible[key] = !m.columns[key].Hidden
	}
}

// Column returns the column with the given key.
func (m *ColumnModel) Column(key string) (Column, bool) {
	c, ok := m.columns[key]
	return c, ok
}

// Len returns the number of columns.
func (m *ColumnModel) Len() int {
	return len(m.order)
}

// Order returns the current key order.
func (m *ColumnModel) Order() []string {
	return slices.Clone(m.order)
}

// Move drags dragKey onto targetKey using splice semantics: the dragged key is
// removed and reinserted at the target's index. Moving forward therefore lands
// after the target, moving backward lands before it.
// Returns false if either key is unknown or they are the same.
func (m *ColumnModel) Move(dragKey, targetKey string) bool {
	from := slices.Index(m.order, dragKey)
	to := slices.Index(m.order, targetKey)
	if from < 0 || to < 0 || from == to {
		return false
	}
	m.order = slices.Delete(m.order, from, from+1)
	m.order = slices.Insert(m.order, to, dragKey)
	return true
}

// IsVisible reports whether the column is shown.
func (m *ColumnModel) IsVisible(key string) bool {
	return m.visible[key]
}

// Toggle flips the visibility of one column. Unknown keys are ignored.
func (m *ColumnModel) Toggle(key string) {
	if _, ok := m.columns[key]; !ok {
		return
	}
	m.visible[key] = !m.visible[key]
}

// ShowAll makes every column visible.
func (m *ColumnModel) ShowAll() {
	for key := range m.columns {
		m.visible[key] = true
	}
}

// HideAll hides every column.
func (m *ColumnModel) HideAll() {
	for key := range m.columns {
		m.visible[key] = false
	}
}

// AllVisible reports whether every column is shown.
func (m *ColumnModel) AllVisible() bool {
	for key := range m.columns {
		if !m.visible[key] {
			return false
		}
	}
	return true
}

// ToggleAll hides every column when all are visible, otherwise shows all.
func (m *ColumnModel) ToggleAll() {
	if m.AllVisible() {
		m.HideAll()
		return
	}
	m.ShowAll()
}

// Visible returns the visible columns in current order.
func (m *ColumnModel) Visible() []Column {
	cols := make([]Column, 0, len(m.order))
	for _, key := range m.order {
		if m.visible[key] {
			cols = append(cols, m.columns[key])
		}
	}
	return cols
}

// All returns every column in current order.
func (m *ColumnModel) All() []Column {
	cols := make([]Column, len(m.order))
	for i, key := range m.order {
		cols[i] = m.columns[key]
	}
	return cols
}

// Filterable returns the keys of filterable columns in current order,
// regardless of visibility. These are the keys the global filter searches.
func (m *ColumnModel) Filterable() []string {
	var keys []string
	for _, key := range m.order {
		if m.columns[key].Filterable {
			keys = append(keys, key)
		}
	}
	return keys
}
