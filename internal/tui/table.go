package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
)

const (
	// maxAutoWidth caps columns without a configured width.
	maxAutoWidth = 32
	minWidth     = 3
	ellipsis     = "…"
	separator    = " │ "
)

// TableOptions controls RenderTable.
type TableOptions struct {
	Styles Styles
	// Cursor is the row index (into rows) drawn with the cursor style; -1 for none.
	Cursor int
	// FocusKey is the column whose header is drawn focused.
	FocusKey string
	// Sort marks the sorted column's header.
	Sort *grid.SortState
	// Selected reports whether a row is selected. Nil draws no selection column.
	Selected func(record.ID) bool
}

// RenderTable draws a header and one line per row. Cells are measured in
// terminal columns, so wide runes never push a column out of alignment.
func RenderTable(cols []grid.Column, rows []record.Record, opts TableOptions) string {
	if len(cols) == 0 {
		return opts.Styles.Status.Render("(no visible columns)") + "\n"
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = sanitize(c.Display(r))
		}
		cells[i] = line
	}

	headers := make([]string, len(cols))
	for j, c := range cols {
		headers[j] = c.Label() + sortMark(c.Key, opts.Sort)
	}
	widths := columnWidths(cols, headers, cells)

	var sb strings.Builder
	lead := "  "
	if opts.Selected != nil {
		lead += "    "
	}

	sb.WriteString(lead)
	for j, h := range headers {
		if j > 0 {
			sb.WriteString(separator)
		}
		style := opts.Styles.Header
		if cols[j].Key == opts.FocusKey {
			style = opts.Styles.FocusedHeader
		}
		sb.WriteString(style.Render(fit(h, widths[j])))
	}
	sb.WriteString("\n")

	total := runewidth.StringWidth(lead)
	for j, w := range widths {
		if j > 0 {
			total += runewidth.StringWidth(separator)
		}
		total += w
	}
	sb.WriteString(opts.Styles.Status.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	for i, r := range rows {
		var line strings.Builder
		if i == opts.Cursor {
			line.WriteString("> ")
		} else {
			line.WriteString("  ")
		}
		selected := false
		if opts.Selected != nil {
			selected = opts.Selected(r.ID)
			if selected {
				line.WriteString("[x] ")
			} else {
				line.WriteString("[ ] ")
			}
		}
		for j := range cols {
			if j > 0 {
				line.WriteString(separator)
			}
			line.WriteString(fit(cells[i][j], widths[j]))
		}

		style := opts.Styles.Row
		switch {
		case i == opts.Cursor:
			style = opts.Styles.Cursor
		case selected:
			style = opts.Styles.Selected
		}
		sb.WriteString(style.Render(line.String()))
		sb.WriteString("\n")
	}
	return sb.String()
}

func sortMark(key string, s *grid.SortState) string {
	if s == nil || s.Key != key {
		return ""
	}
	if s.Direction == grid.Desc {
		return " ▼"
	}
	return " ▲"
}

// columnWidths uses the configured width, else the widest of header and
// cells capped at maxAutoWidth.
func columnWidths(cols []grid.Column, headers []string, cells [][]string) []int {
	widths := make([]int, len(cols))
	for j, c := range cols {
		if c.Width > 0 {
			widths[j] = max(c.Width, minWidth)
			continue
		}
		w := runewidth.StringWidth(headers[j])
		for _, line := range cells {
			w = max(w, runewidth.StringWidth(line[j]))
		}
		widths[j] = min(max(w, minWidth), maxAutoWidth)
	}
	return widths
}

// fit truncates s to width terminal columns and pads it to exactly width.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

// sanitize keeps a cell on one line.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
}
