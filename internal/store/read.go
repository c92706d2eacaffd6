package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/querysql"
	"github.com/roach88/shiftgrid/internal/record"
)

// Page is one server-driven page.
type Page struct {
	Records  []record.Record `json:"rows"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	LastPage int             `json:"last_page"`
}

// LoadRecords returns every record of dataset in snapshot order.
func (s *Store) LoadRecords(ctx context.Context, dataset string) ([]record.Record, error) {
	if _, err := s.Snapshot(ctx, dataset); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, id_kind, doc
		FROM records
		WHERE dataset = ?
		ORDER BY seq ASC
	`, dataset)
	if err != nil {
		return nil, fmt.Errorf("load records %q: %w", dataset, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("load records %q: %w", dataset, err)
	}
	return records, nil
}

// QueryPage runs the filter, sort and page stages in SQLite.
// Total is the filtered count; out-of-range pages return no records.
func (s *Store) QueryPage(ctx context.Context, req querysql.Request) (Page, error) {
	if _, err := s.Snapshot(ctx, req.Dataset); err != nil {
		return Page{}, err
	}

	compiler := querysql.NewSQLCompiler()

	countSQL, countArgs, err := compiler.CompileCount(req)
	if err != nil {
		return Page{}, fmt.Errorf("query page: %w", err)
	}
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("query page %q: count: %w", req.Dataset, err)
	}

	pageSQL, pageArgs, err := compiler.Compile(req)
	if err != nil {
		return Page{}, fmt.Errorf("query page: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return Page{}, fmt.Errorf("query page %q: %w", req.Dataset, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return Page{}, fmt.Errorf("query page %q: %w", req.Dataset, err)
	}
	if records == nil {
		records = []record.Record{}
	}

	return Page{
		Records:  records,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		LastPage: grid.LastPage(total, req.PageSize),
	}, nil
}

// scanRecords decodes (record_id, id_kind, doc) rows.
func scanRecords(rows *sql.Rows) ([]record.Record, error) {
	var out []record.Record
	for rows.Next() {
		var id, kind, doc string
		if err := rows.Scan(&id, &kind, &doc); err != nil {
			return nil, err
		}
		r, err := decodeRecord(id, kind, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
