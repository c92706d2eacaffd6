package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the browser on the terminal until the user quits or ctx is
// cancelled, and returns the final model.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, fmt.Errorf("run browser: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("run browser: unexpected model %T", final)
	}
	return fm, nil
}
