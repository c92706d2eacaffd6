// Package tui is an interactive terminal browser over a grid.View.
//
// The browser always renders in virtual-scroll mode: the window is the
// terminal body, one line per row, and only the rows inside it are drawn.
// Global filter edits are debounced through grid.Debouncer; the debounced
// call publishes a message that the bubbletea loop picks up.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
)

// chromeLines is the number of lines around the table body: title, filter,
// header, rule, status and help.
const chromeLines = 6

// defaultBodyRows is used until the first WindowSizeMsg arrives.
const defaultBodyRows = 20

// Options configures a Model.
type Options struct {
	Title string
	// Debounce is the filter quiet period; zero uses grid.DefaultDebounce.
	Debounce time.Duration
	// Clock drives the debouncer; nil uses grid.SystemClock.
	Clock  grid.Clock
	Styles *Styles
}

// filterMsg carries debounced filter text into the update loop.
type filterMsg struct {
	text string
}

// mailbox holds at most one undelivered filterMsg; a newer one replaces it.
type mailbox struct {
	ch chan filterMsg
}

func newMailbox() *mailbox {
	return &mailbox{ch: make(chan filterMsg, 1)}
}

func (b *mailbox) publish(msg filterMsg) {
	for {
		select {
		case b.ch <- msg:
			return
		default:
			select {
			case <-b.ch:
			default:
			}
		}
	}
}

// drain discards an undelivered message.
func (b *mailbox) drain() {
	select {
	case <-b.ch:
	default:
	}
}

func (b *mailbox) wait() tea.Cmd {
	return func() tea.Msg { return <-b.ch }
}

// Model is the bubbletea model of the browser.
type Model struct {
	view      *grid.View
	title     string
	keys      keyMap
	styles    Styles
	input     textinput.Model
	searching bool
	debouncer *grid.Debouncer
	mailbox   *mailbox
	tracker   *grid.ScrollTracker

	cursor    int
	scrollTop int
	focus     int
	bodyRows  int
	status    string
	quitting  bool
}

// New creates a browser over view.
func New(view *grid.View, opts Options) Model {
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "filter"
	input.SetValue(view.Filters().Global)

	return Model{
		view:      view,
		title:     opts.Title,
		keys:      defaultKeyMap(),
		styles:    styles,
		input:     input,
		debouncer: grid.NewDebouncer(opts.Debounce, opts.Clock),
		mailbox:   newMailbox(),
		tracker:   grid.NewScrollTracker(opts.Clock),
		bodyRows:  defaultBodyRows,
	}
}

// Init starts listening for debounced filter messages.
func (m Model) Init() tea.Cmd {
	return m.mailbox.wait()
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bodyRows = max(msg.Height-chromeLines, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.keepCursorVisible()
		return m, nil

	case filterMsg:
		// Text typed after the debounced call was scheduled supersedes it.
		if msg.text == m.input.Value() {
			m.applyFilter(msg.text)
		}
		return m, m.mailbox.wait()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.debouncer.Stop()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Apply):
		m.searching = false
		m.input.Blur()
		m.debouncer.Stop()
		m.applyFilter(m.input.Value())
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.input.Blur()
		m.debouncer.Stop()
		m.mailbox.drain()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != before {
		box := m.mailbox
		m.debouncer.Call(func() { box.publish(filterMsg{text: text}) })
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.debouncer.Stop()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		m.debouncer.Stop()
		m.input.SetValue("")
		m.view.ClearFilters()
		m.cursor, m.scrollTop = 0, 0
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.bodyRows)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.bodyRows)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-m.cursor)
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.view.Processed()))
	case key.Matches(msg, m.keys.Left):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Select):
		if r, ok := m.currentRow(); ok {
			m.view.ToggleSelection(r.ID)
		}
	case key.Matches(msg, m.keys.ClearSelect):
		m.view.Selection().Clear()
	case key.Matches(msg, m.keys.Sort):
		if c, ok := m.focusedColumn(); ok && !m.view.ToggleSort(c.Key) {
			m.status = fmt.Sprintf("%s is not sortable", c.Label())
		}
	case key.Matches(msg, m.keys.Column):
		if c, ok := m.focusedColumn(); ok {
			m.view.Columns().Toggle(c.Key)
		}
	case key.Matches(msg, m.keys.AllColumns):
		m.view.Columns().ToggleAll()
	case key.Matches(msg, m.keys.MoveLeft):
		m.moveColumn(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.moveColumn(1)
	}
	m.keepCursorVisible()
	return m, nil
}

func (m *Model) applyFilter(text string) {
	if text == m.view.Filters().Global {
		return
	}
	m.view.SetGlobalFilter(text)
	m.cursor, m.scrollTop = 0, 0
	m.observeScroll()
}

func (m *Model) moveCursor(delta int) {
	n := len(m.view.Processed())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
}

// keepCursorVisible clamps the cursor and scrolls the window to contain it.
func (m *Model) keepCursorVisible() {
	n := len(m.view.Processed())
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
	before := m.scrollTop
	switch {
	case m.cursor < m.scrollTop:
		m.scrollTop = m.cursor
	case m.cursor >= m.scrollTop+m.bodyRows:
		m.scrollTop = m.cursor - m.bodyRows + 1
	}
	m.scrollTop = min(m.scrollTop, int(m.window().MaxScrollTop(n)))
	m.scrollTop = max(m.scrollTop, 0)
	if m.scrollTop != before {
		m.observeScroll()
	}
}

func (m *Model) observeScroll() {
	m.tracker.Observe(float64(m.scrollTop))
}

// moveFocus moves column focus across every column, hidden ones included, so
// a hidden column can be shown again.
func (m *Model) moveFocus(delta int) {
	n := m.view.Columns().Len()
	if n == 0 {
		return
	}
	m.focus = min(max(m.focus+delta, 0), n-1)
}

func (m *Model) moveColumn(delta int) {
	order := m.view.Columns().Order()
	target := m.focus + delta
	if m.focus >= len(order) || target < 0 || target >= len(order) {
		return
	}
	if m.view.Columns().Move(order[m.focus], order[target]) {
		m.focus = target
	}
}

func (m Model) focusedColumn() (grid.Column, bool) {
	all := m.view.Columns().All()
	if m.focus < 0 || m.focus >= len(all) {
		return grid.Column{}, false
	}
	return all[m.focus], true
}

func (m Model) currentRow() (record.Record, bool) {
	rows := m.view.Processed()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return record.Record{}, false
	}
	return rows[m.cursor], true
}

func (m Model) window() grid.Window {
	return grid.Window{RowHeight: 1, ViewportHeight: float64(m.bodyRows)}
}

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	processed := m.view.Processed()
	r := m.window().Range(len(processed), float64(m.scrollTop))
	rows := grid.Slice(processed, r)

	var sb strings.Builder
	title := m.title
	if title == "" {
		title = "shiftgrid"
	}
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString(m.styles.Status.Render(fmt.Sprintf("  %d of %d rows · %d selected",
		len(processed), m.view.Rows().Len(), m.view.Selection().Len())))
	sb.WriteString("\n")

	if m.searching || m.input.Value() != "" {
		sb.WriteString(m.input.View())
	}
	sb.WriteString("\n")

	focusKey := ""
	if c, ok := m.focusedColumn(); ok {
		focusKey = c.Key
	}
	sb.WriteString(RenderTable(m.view.Columns().Visible(), rows, TableOptions{
		Styles:   m.styles,
		Cursor:   m.cursor - r.Start,
		FocusKey: focusKey,
		Sort:     m.view.Sort(),
		Selected: m.view.Selection().IsSelected,
	}))

	sb.WriteString(m.styles.Status.Render(m.statusLine(len(processed))))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render(m.helpLine()))
	return sb.String()
}

func (m Model) statusLine(n int) string {
	parts := []string{}
	if n > 0 {
		parts = append(parts, fmt.Sprintf("row %d/%d", m.cursor+1, n))
	} else {
		parts = append(parts, "no matching rows")
	}
	if s := m.view.Sort(); s != nil {
		parts = append(parts, fmt.Sprintf("sort %s %s", s.Key, s.Direction))
	}
	if c, ok := m.focusedColumn(); ok {
		label := "column " + c.Label()
		if !m.view.Columns().IsVisible(c.Key) {
			label += " (hidden)"
		}
		parts = append(parts, label)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}

func (m Model) helpLine() string {
	bindings := m.keys.shortHelp()
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, "  ")
}

// Selected returns the selected records that still exist in the snapshot.
func (m Model) Selected() []record.Record {
	return m.view.Selection().Resolve(m.view.Rows())
}

// Cursor returns the cursor's index into the processed rows.
func (m Model) Cursor() int {
	return m.cursor
}

// ScrollVelocity returns the window's scroll speed in rows per second.
func (m Model) ScrollVelocity() float64 {
	return m.tracker.Velocity()
}

// ScrollTop returns the first row of the window.
func (m Model) ScrollTop() int {
	return m.scrollTop
}
