package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6B7280")
	marked = lipgloss.Color("#FFC107")
)

// Styles are the browser's lipgloss styles.
type Styles struct {
	Title         lipgloss.Style
	Header        lipgloss.Style
	FocusedHeader lipgloss.Style
	Row           lipgloss.Style
	Cursor        lipgloss.Style
	Selected      lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
}

// DefaultStyles returns the default theme.
func DefaultStyles() Styles {
	return Styles{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(accent),
		Header:        lipgloss.NewStyle().Bold(true),
		FocusedHeader: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		Row:           lipgloss.NewStyle(),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Selected:      lipgloss.NewStyle().Foreground(marked),
		Status:        lipgloss.NewStyle().Foreground(muted),
		Help:          lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
