package grid

import (
	"fmt"
	"maps"

	"github.com/roach88/shiftgrid/internal/record"
)

// Options configures a View.
type Options struct {
	// PageSize defaults to DefaultPageSize.
	PageSize int
	// Sort is the initial sort; nil preserves row-store order.
	Sort *SortState
	// Window enables Virtual; nil disables virtual scrolling.
	Window *Window
}

// View owns the state the pipeline is recomputed from: filters, sort, page,
// selection and the column model. It holds no derived data; Result and
// Virtual recompute from the current snapshot on every call.
type View struct {
	rows      *RowStore
	columns   *ColumnModel
	filters   FilterState
	sort      *SortState
	page      Pagination
	selection *Selection
	window    *Window
}

// NewView creates a View over rows and columns.
func NewView(rows *RowStore, columns *ColumnModel, opts Options) (*View, error) {
	if rows == nil {
		return nil, fmt.Errorf("grid: nil row store")
	}
	if columns == nil {
		return nil, fmt.Errorf("grid: nil column model")
	}
	if opts.Window != nil {
		if err := opts.Window.Validate(); err != nil {
			return nil, err
		}
	}
	v := &View{
		rows:      rows,
		columns:   columns,
		page:      NewPagination(opts.PageSize),
		selection: NewSelection(),
	}
	if opts.Window != nil {
		w := *opts.Window
		v.window = &w
	}
	if opts.Sort != nil {
		s := *opts.Sort
		v.sort = &s
	}
	return v, nil
}

// Result is one render of the pipeline.
type Result struct {
	Rows     []record.Record `json:"rows"`
	Columns  []Column        `json:"-"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	LastPage int             `json:"last_page"`
	Selected []record.Record `json:"selected,omitempty"`
}

// VirtualResult is one render of the pipeline in virtual-scroll mode.
type VirtualResult struct {
	Rows    []record.Record `json:"rows"`
	Columns []Column        `json:"-"`
	Range   Range           `json:"range"`
	Total   int             `json:"total"`
}

// Rows returns the row store.
func (v *View) Rows() *RowStore { return v.rows }

// Columns returns the column model.
func (v *View) Columns() *ColumnModel { return v.columns }

// Selection returns the selection tracker.
func (v *View) Selection() *Selection { return v.selection }

// Filters returns the current filter state.
func (v *View) Filters() FilterState { return v.filters }

// Window returns the virtual window configuration, or nil.
func (v *View) Window() *Window { return v.window }

// Sort returns a copy of the current sort, or nil.
func (v *View) Sort() *SortState {
	if v.sort == nil {
		return nil
	}
	s := *v.sort
	return &s
}

// Pagination returns the pager state with Total set to the filtered count.
func (v *View) Pagination() Pagination {
	p := v.page
	p.Total = len(v.filtered())
	return p
}

// SetGlobalFilter replaces the free-text filter.
func (v *View) SetGlobalFilter(text string) {
	v.filters = v.filters.WithGlobal(text)
}

// SetFieldFilter replaces one per-field constraint; an empty value removes it.
func (v *View) SetFieldFilter(field, value string) {
	v.filters = v.filters.WithField(field, value)
}

// SetFilters replaces the whole filter state.
func (v *View) SetFilters(state FilterState) {
	v.filters = FilterState{Global: state.Global, Fields: maps.Clone(state.Fields)}
}

// ClearFilters removes every constraint.
func (v *View) ClearFilters() {
	v.filters = FilterState{}
}

// ToggleSort applies a header click on key. Unknown and unsortable columns
// are ignored and reported with false.
func (v *View) ToggleSort(key string) bool {
	c, ok := v.columns.Column(key)
	if !ok || !c.Sortable {
		return false
	}
	v.sort = NextSort(v.sort, key)
	return true
}

// SetSort replaces the sort. Nil restores row-store order.
func (v *View) SetSort(state *SortState) {
	if state == nil {
		v.sort = nil
		return
	}
	s := *state
	v.sort = &s
}

// SetPage moves to page. Pages below 1 become 1; pages past the end are kept
// as requested and render no rows.
func (v *View) SetPage(page int) {
	v.page.Page = max(page, 1)
}

// SetPageSize changes the page size and returns to page 1.
func (v *View) SetPageSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	v.page.PageSize = size
	v.page.Page = 1
	return nil
}

// Replace swaps the row-store snapshot. Filters, sort, page and selection are
// kept as they are.
func (v *View) Replace(records []record.Record) error {
	return v.rows.Replace(records)
}

// filtered runs the filter stage over the snapshot.
func (v *View) filtered() []record.Record {
	return Filter(v.rows.Records(), v.columns.Filterable(), v.filters)
}

// Processed returns the filtered, sorted records before pagination.
func (v *View) Processed() []record.Record {
	return Sort(v.filtered(), v.sort)
}

// Result runs the full pipeline for the current page.
func (v *View) Result() Result {
	processed := v.Processed()
	total := len(processed)
	return Result{
		Rows:     Paginate(processed, v.page.Page, v.page.PageSize),
		Columns:  v.columns.Visible(),
		Total:    total,
		Page:     v.page.Page,
		PageSize: v.page.PageSize,
		LastPage: LastPage(total, v.page.PageSize),
		Selected: v.selection.Resolve(v.rows),
	}
}

// Virtual runs the pipeline in virtual-scroll mode at scrollTop.
// Returns an error if the view has no window configured.
func (v *View) Virtual(scrollTop float64) (VirtualResult, error) {
	if v.window == nil {
		return VirtualResult{}, fmt.Errorf("grid: view has no virtual window")
	}
	processed := v.Processed()
	r := v.window.Range(len(processed), scrollTop)
	return VirtualResult{
		Rows:    Slice(processed, r),
		Columns: v.columns.Visible(),
		Range:   r,
		Total:   len(processed),
	}, nil
}

// ToggleSelection flips the selection of id.
func (v *View) ToggleSelection(id record.ID) bool {
	return v.selection.Toggle(id)
}

// TogglePageSelection selects every row on the current page, or deselects
// them all if they are already selected.
func (v *View) TogglePageSelection() {
	ids := record.IDs(v.Result().Rows)
	if v.selection.AllSelected(ids) {
		v.selection.RemoveAll(ids)
		return
	}
	v.selection.AddAll(ids)
}

// Query is the view state a server-driven source needs to produce one page.
type Query struct {
	SearchKeys []string
	Filters    FilterState
	Sort       *SortState
	Page       int
	PageSize   int
}

// Query returns the current filter, sort and page state.
func (v *View) Query() Query {
	return Query{
		SearchKeys: v.columns.Filterable(),
		Filters:    FilterState{Global: v.filters.Global, Fields: maps.Clone(v.filters.Fields)},
		Sort:       v.Sort(),
		Page:       v.page.Page,
		PageSize:   v.page.PageSize,
	}
}
