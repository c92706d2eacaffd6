package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browser's bindings.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Left        key.Binding
	Right       key.Binding
	Select      key.Binding
	ClearSelect key.Binding
	Sort        key.Binding
	Column      key.Binding
	AllColumns  key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	Search      key.Binding
	Apply       key.Binding
	Cancel      key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		ClearSelect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear selection")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Column:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show/hide column")),
		AllColumns:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show/hide all")),
		MoveLeft:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "move column left")),
		MoveRight:   key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "move column right")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Apply:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply filter")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave filter / clear")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// shortHelp lists the bindings shown in the footer.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Select, k.Sort, k.Left, k.Column, k.AllColumns, k.Quit}
}
