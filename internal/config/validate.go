package config

import (
	"fmt"
	"strings"

	"github.com/roach88/shiftgrid/internal/grid"
)

// Validation error codes (E100-E199)
const (
	// File errors (E101-E103)
	ErrNoTables           = "E101" // at least one table required
	ErrTableNameEmpty     = "E102" // table name is required
	ErrDuplicateTableName = "E103" // duplicate table name

	// Column errors (E104-E106)
	ErrColumnKeyEmpty     = "E104" // column key is required
	ErrDuplicateColumnKey = "E105" // duplicate column key
	ErrUnknownFormat      = "E106" // unknown column format

	// Filter errors (E110-E114)
	ErrFilterKeyEmpty     = "E110" // filter key is required
	ErrDuplicateFilterKey = "E111" // duplicate filter key
	ErrSelectNoOptions    = "E112" // select filter needs options
	ErrUnknownFilterType  = "E113" // filter type is not text or select
	ErrDuplicateOption    = "E114" // duplicate select option value

	// Paging, window and sort errors (E120-E124)
	ErrInvalidPageSize  = "E120" // page size must be positive
	ErrInvalidHeight    = "E121" // row and viewport heights must be positive
	ErrNegativeOverscan = "E122" // overscan must not be negative
	ErrInvalidSortKey   = "E123" // default sort column unknown or not sortable
	ErrInvalidSortDir   = "E124" // default sort direction is not asc or desc
)

// ValidationError represents a definition validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a definition file against the table rules.
// Returns all errors found (does not fail-fast).
func Validate(f *File) []ValidationError {
	var errs []ValidationError

	// E101: at least one table required
	if len(f.Tables) == 0 {
		errs = append(errs, ValidationError{
			Field:   "tables",
			Message: "at least one table is required",
			Code:    ErrNoTables,
		})
	}

	names := make(map[string]bool)
	for i := range f.Tables {
		t := &f.Tables[i]
		prefix := fmt.Sprintf("tables[%d]", i)

		// E102: table name is required
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: "table name is required",
				Code:    ErrTableNameEmpty,
			})
		} else if names[t.Name] {
			// E103: duplicate table name
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate table name: %q", t.Name),
				Code:    ErrDuplicateTableName,
			})
		}
		names[t.Name] = true

		errs = append(errs, validateTable(t, prefix)...)
	}

	return errs
}

// validateTable validates one table's columns, filters, window and sort.
func validateTable(t *TableConfig, prefix string) []ValidationError {
	var errs []ValidationError

	columns := make(map[string]ColumnConfig)
	for i, c := range t.Columns {
		field := fmt.Sprintf("%s.columns[%d]", prefix, i)

		// E104: column key is required
		if strings.TrimSpace(c.Key) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: "column key is required",
				Code:    ErrColumnKeyEmpty,
			})
		} else if _, dup := columns[c.Key]; dup {
			// E105: duplicate column key
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: fmt.Sprintf("duplicate column key: %q", c.Key),
				Code:    ErrDuplicateColumnKey,
			})
		} else {
			columns[c.Key] = c
		}

		// E106: unknown column format
		if _, err := grid.ParseFormat(c.Format); err != nil {
			errs = append(errs, ValidationError{
				Field:   field + ".format",
				Message: fmt.Sprintf("unknown format %q", c.Format),
				Code:    ErrUnknownFormat,
			})
		}
	}

	errs = append(errs, validateFilters(t.Filters, prefix)...)

	// E120: page size must be positive when set
	if t.PageSize < 0 {
		errs = append(errs, ValidationError{
			Field:   prefix + ".page_size",
			Message: fmt.Sprintf("page size must be positive, got %d", t.PageSize),
			Code:    ErrInvalidPageSize,
		})
	}

	if w := t.Window; w != nil {
		// E121: heights must be positive
		if w.RowHeight <= 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".window.row_height",
				Message: "row height must be positive",
				Code:    ErrInvalidHeight,
			})
		}
		if w.ViewportHeight <= 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".window.viewport_height",
				Message: "viewport height must be positive",
				Code:    ErrInvalidHeight,
			})
		}
		// E122: overscan must not be negative
		if w.Overscan < 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".window.overscan",
				Message: fmt.Sprintf("overscan must not be negative, got %d", w.Overscan),
				Code:    ErrNegativeOverscan,
			})
		}
	}

	if s := t.DefaultSort; s != nil {
		// E123: default sort column must exist and be sortable
		c, ok := columns[s.Key]
		switch {
		case !ok:
			errs = append(errs, ValidationError{
				Field:   prefix + ".default_sort.key",
				Message: fmt.Sprintf("default sort column %q is not defined", s.Key),
				Code:    ErrInvalidSortKey,
			})
		case !c.Sortable:
			errs = append(errs, ValidationError{
				Field:   prefix + ".default_sort.key",
				Message: fmt.Sprintf("default sort column %q is not sortable", s.Key),
				Code:    ErrInvalidSortKey,
			})
		}

		// E124: direction must parse
		if _, err := grid.ParseDirection(s.Direction); err != nil {
			errs = append(errs, ValidationError{
				Field:   prefix + ".default_sort.direction",
				Message: err.Error(),
				Code:    ErrInvalidSortDir,
			})
		}
	}

	return errs
}

// validateFilters validates the filter controls of one table.
func validateFilters(filters []FilterConfig, prefix string) []ValidationError {
	var errs []ValidationError

	keys := make(map[string]bool)
	for i, f := range filters {
		field := fmt.Sprintf("%s.filters[%d]", prefix, i)

		// E110: filter key is required
		if strings.TrimSpace(f.Key) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: "filter key is required",
				Code:    ErrFilterKeyEmpty,
			})
		} else if keys[f.Key] {
			// E111: duplicate filter key
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: fmt.Sprintf("duplicate filter key: %q", f.Key),
				Code:    ErrDuplicateFilterKey,
			})
		}
		keys[f.Key] = true

		switch f.Type {
		case "", FilterText:
		case FilterSelect:
			// E112: select filter needs options
			if len(f.Options) == 0 {
				errs = append(errs, ValidationError{
					Field:   field + ".options",
					Message: fmt.Sprintf("select filter %q requires at least one option", f.Key),
					Code:    ErrSelectNoOptions,
				})
			}
			// E114: duplicate option value
			values := make(map[string]bool)
			for j, o := range f.Options {
				if values[o.Value] {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("%s.options[%d].value", field, j),
						Message: fmt.Sprintf("duplicate option value: %q", o.Value),
						Code:    ErrDuplicateOption,
					})
				}
				values[o.Value] = true
			}
		default:
			// E113: unknown filter type
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: fmt.Sprintf("invalid filter type %q, must be \"text\" or \"select\"", f.Type),
				Code:    ErrUnknownFilterType,
			})
		}
	}

	return errs
}
