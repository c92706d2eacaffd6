package cli

import (
	"fmt"

	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
	"github.com/roach88/shiftgrid/internal/tui"
)

// PageResult is one page of a table as reported by view and query.
type PageResult struct {
	Dataset  string          `json:"dataset"`
	Columns  []string        `json:"columns"`
	Rows     []record.Record `json:"rows"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	LastPage int             `json:"last_page"`
}

func newPageResult(dataset string, cols []grid.Column, rows []record.Record, total, page, pageSize, lastPage int) PageResult {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	if rows == nil {
		rows = []record.Record{}
	}
	return PageResult{
		Dataset:  dataset,
		Columns:  keys,
		Rows:     rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		LastPage: lastPage,
	}
}

// outputPage writes a page as the JSON envelope or as an aligned table.
func outputPage(f *OutputFormatter, cols []grid.Column, sort *grid.SortState, res PageResult) error {
	if f.IsJSON() {
		return f.Success(res)
	}

	// Zero styles keep text output free of escape codes.
	fmt.Fprint(f.Writer, tui.RenderTable(cols, res.Rows, tui.TableOptions{
		Cursor: -1,
		Sort:   sort,
	}))
	fmt.Fprintf(f.Writer, "\npage %d of %d, %d rows\n", res.Page, res.LastPage, res.Total)
	return nil
}
