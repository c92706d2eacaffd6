// Package config loads, validates and builds table definitions, and loads the
// CLI settings file.
//
// Table definitions are authored in YAML, JSON or CUE. A definition names the
// dataset's identifier field, its columns (key, header, format, sortable,
// filterable), the filter controls shown above the table, an optional virtual
// window and an optional default sort.
package config

// File is a table definition document.
type File struct {
	Tables []TableConfig `yaml:"tables" json:"tables"`
}

// Table returns the named table. An empty name selects the only table of a
// single-table file.
func (f *File) Table(name string) (*TableConfig, bool) {
	if name == "" {
		if len(f.Tables) == 1 {
			return &f.Tables[0], true
		}
		return nil, false
	}
	for i := range f.Tables {
		if f.Tables[i].Name == name {
			return &f.Tables[i], true
		}
	}
	return nil, false
}

// Names returns the table names in declaration order.
func (f *File) Names() []string {
	names := make([]string, len(f.Tables))
	for i, t := range f.Tables {
		names[i] = t.Name
	}
	return names
}

// TableConfig describes one table.
type TableConfig struct {
	Name        string         `yaml:"name" json:"name"`
	Title       string         `yaml:"title,omitempty" json:"title,omitempty"`
	IDField     string         `yaml:"id_field,omitempty" json:"id_field,omitempty"`
	PageSize    int            `yaml:"page_size,omitempty" json:"page_size,omitempty"`
	Columns     []ColumnConfig `yaml:"columns" json:"columns"`
	Filters     []FilterConfig `yaml:"filters,omitempty" json:"filters,omitempty"`
	Window      *WindowConfig  `yaml:"window,omitempty" json:"window,omitempty"`
	DefaultSort *SortConfig    `yaml:"default_sort,omitempty" json:"default_sort,omitempty"`
}

// ColumnConfig describes one column.
type ColumnConfig struct {
	Key        string `yaml:"key" json:"key"`
	Header     string `yaml:"header,omitempty" json:"header,omitempty"`
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`
	Sortable   bool   `yaml:"sortable,omitempty" json:"sortable,omitempty"`
	Filterable bool   `yaml:"filterable,omitempty" json:"filterable,omitempty"`
	Hidden     bool   `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Width      int    `yaml:"width,omitempty" json:"width,omitempty"`
	Order      int    `yaml:"order,omitempty" json:"order,omitempty"`
}

// Filter control types.
const (
	FilterText   = "text"
	FilterSelect = "select"
)

// FilterConfig describes a per-field filter control.
// Select filters still match by substring on the chosen option value.
type FilterConfig struct {
	Key     string         `yaml:"key" json:"key"`
	Label   string         `yaml:"label,omitempty" json:"label,omitempty"`
	Type    string         `yaml:"type,omitempty" json:"type,omitempty"`
	Options []OptionConfig `yaml:"options,omitempty" json:"options,omitempty"`
}

// OptionConfig is one choice of a select filter.
type OptionConfig struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// WindowConfig enables virtual scrolling.
type WindowConfig struct {
	RowHeight      float64 `yaml:"row_height" json:"row_height"`
	ViewportHeight float64 `yaml:"viewport_height" json:"viewport_height"`
	Overscan       int     `yaml:"overscan,omitempty" json:"overscan,omitempty"`
}

// SortConfig is the initial sort of a table.
type SortConfig struct {
	Key       string `yaml:"key" json:"key"`
	Direction string `yaml:"direction,omitempty" json:"direction,omitempty"`
}
