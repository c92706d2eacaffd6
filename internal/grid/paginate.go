package grid

import "github.com/roach88/shiftgrid/internal/record"

// DefaultPageSize is used when a table does not configure one.
const DefaultPageSize = 10

// Pagination is the pager state. Page is 1-based and never below 1.
// Total may come from a server-side count rather than a local slice length.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPagination creates a pager on page 1. Non-positive sizes use DefaultPageSize.
func NewPagination(pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pagination{Page: 1, PageSize: pageSize}
}

// LastPage returns the last valid page for the pager's Total.
func (p Pagination) LastPage() int {
	return LastPage(p.Total, p.PageSize)
}

// InRange reports whether Page addresses an existing page.
func (p Pagination) InRange() bool {
	return p.Page >= 1 && p.Page <= p.LastPage()
}

// Clamp returns a copy with Page moved into [1, LastPage].
// Paginate never clamps on its own; callers opt in here.
func (p Pagination) Clamp() Pagination {
	last := p.LastPage()
	switch {
	case p.Page < 1:
		p.Page = 1
	case p.Page > last:
		p.Page = last
	}
	return p
}

// LastPage returns ceil(total/pageSize), minimum 1.
// Exactly one page exists when total is zero.
func LastPage(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Offset returns the index of the first record on page.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize <= 0 {
		return 0
	}
	return (page - 1) * pageSize
}

// Paginate returns records in [(page-1)*pageSize, page*pageSize), clipped to
// bounds. Pages past the end, pages below 1 and non-positive sizes yield an
// empty slice.
func Paginate(records []record.Record, page, pageSize int) []record.Record {
	if page < 1 || pageSize <= 0 {
		return []record.Record{}
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []record.Record{}
	}
	end := min(start+pageSize, len(records))
	return records[start:end]
}
