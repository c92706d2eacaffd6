// Package querysql compiles server-driven page requests to parameterized
// SQLite queries over the snapshot store's records table.
//
// Every query filters by dataset, orders with the seq column as the final
// tiebreaker and binds every value as a parameter. Field names reach SQL only
// as bound JSON paths.
package querysql

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
)

// DefaultTable is the records table of the snapshot store.
const DefaultTable = "records"

// Request is one server-driven page: the filter, sort and page state of a view
// applied to a stored dataset.
type Request struct {
	Dataset    string
	SearchKeys []string
	Filters    grid.FilterState
	Sort       *grid.SortState
	Page       int
	PageSize   int
}

// FromQuery builds a Request for dataset from a view's state.
func FromQuery(dataset string, q grid.Query) Request {
	return Request{
		Dataset:    dataset,
		SearchKeys: q.SearchKeys,
		Filters:    q.Filters,
		Sort:       q.Sort,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
}

// ErrInvalidField is returned for field names that cannot form a JSON path.
var ErrInvalidField = errors.New("invalid field name")

// SQLCompiler compiles Requests to SQL for SQLite.
//
// The records table stores each record twice: doc holds the typed JSON fields
// and text holds the folded textual form of every non-null field. Substring
// filters match against text with needles folded the same way, so SQL results
// equal the in-memory filter stage.
type SQLCompiler struct {
	// Table is the records table name. Empty uses DefaultTable.
	Table string
}

// NewSQLCompiler creates a compiler over the default records table.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{Table: DefaultTable}
}

func (c *SQLCompiler) table() string {
	if c.Table == "" {
		return DefaultTable
	}
	return c.Table
}

// Compile returns the page query. Selected columns are record_id, id_kind and
// doc. Pages below 1 and non-positive page sizes select nothing.
func (c *SQLCompiler) Compile(req Request) (string, []any, error) {
	where, params, err := c.compileWhere(req)
	if err != nil {
		return "", nil, err
	}

	orderBy, orderParams, err := c.compileOrderBy(req.Sort)
	if err != nil {
		return "", nil, err
	}
	params = append(params, orderParams...)

	limit, offset := 0, 0
	if req.Page >= 1 && req.PageSize > 0 {
		limit = req.PageSize
		offset = grid.Offset(req.Page, req.PageSize)
	}
	params = append(params, limit, offset)

	sql := fmt.Sprintf("SELECT record_id, id_kind, doc FROM %s WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
		c.table(), where, orderBy)
	return sql, params, nil
}

// CompileCount returns the query counting every record that matches the
// request's filters, ignoring sort and page.
func (c *SQLCompiler) CompileCount(req Request) (string, []any, error) {
	where, params, err := c.compileWhere(req)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", c.table(), where), params, nil
}

// compileWhere builds the dataset, per-field and global predicates.
func (c *SQLCompiler) compileWhere(req Request) (string, []any, error) {
	if req.Dataset == "" {
		return "", nil, fmt.Errorf("request has no dataset")
	}

	parts := []string{"dataset = ?"}
	params := []any{req.Dataset}
	folder := record.NewFolder()

	// Sorted for deterministic SQL and parameter order
	fields := make([]string, 0, len(req.Filters.Fields))
	for field, value := range req.Filters.Fields {
		if value != "" {
			fields = append(fields, field)
		}
	}
	slices.Sort(fields)

	for _, field := range fields {
		path, err := FieldPath(field)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "instr(json_extract(text, ?), ?) > 0")
		params = append(params, path, folder.Fold(req.Filters.Fields[field]))
	}

	if req.Filters.Global != "" {
		needle := folder.Fold(req.Filters.Global)
		var ors []string
		for _, key := range req.SearchKeys {
			path, err := FieldPath(key)
			if err != nil {
				return "", nil, err
			}
			ors = append(ors, "instr(json_extract(text, ?), ?) > 0")
			params = append(params, path, needle)
		}
		if len(ors) == 0 {
			// Nothing to search: a non-empty global filter matches no record.
			parts = append(parts, "0 = 1")
		} else {
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
		}
	}

	return strings.Join(parts, " AND "), params, nil
}

// compileOrderBy returns the ORDER BY list. Every list ends with seq so
// records that compare equal keep snapshot order.
//
// Null and absent values sort last in both directions. Non-null values order
// by kind (bool, number, text) and then by value, both reversed for desc.
func (c *SQLCompiler) compileOrderBy(s *grid.SortState) (string, []any, error) {
	if s == nil {
		return "seq ASC", nil, nil
	}

	path, err := FieldPath(s.Key)
	if err != nil {
		return "", nil, err
	}
	dir := "ASC"
	if s.Direction == grid.Desc {
		dir = "DESC"
	}

	order := strings.Join([]string{
		"(COALESCE(json_type(doc, ?), 'null') = 'null') ASC",
		"CASE json_type(doc, ?) WHEN 'true' THEN 0 WHEN 'false' THEN 0 WHEN 'integer' THEN 1 WHEN 'real' THEN 1 ELSE 2 END " + dir,
		"json_extract(doc, ?) " + dir,
		"seq ASC",
	}, ", ")
	return order, []any{path, path, path}, nil
}

// FieldPath returns the SQLite JSON path addressing a top-level field.
func FieldPath(field string) (string, error) {
	if field == "" || strings.ContainsAny(field, "\"\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return `$."` + field + `"`, nil
}
