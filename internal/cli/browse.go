package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/record"
	"github.com/roach88/shiftgrid/internal/tui"
)

// BrowseOptions holds options for the browse command.
type BrowseOptions struct {
	ConfigPath string
	Table      string
	IDField    string
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse <records>",
		Short: "Browse a records file in the terminal",
		Long: `Open an interactive table over a records file.

Keys: / filter (enter applies, esc leaves), ↑/↓ and pgup/pgdn scroll,
h/l focus a column, s sort it, c hide or show it, < and > move it,
a toggle all columns, space select a row, x clear the selection, q quit.

On exit the selected records are printed (JSON with --format json).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "table definition file (YAML, JSON or CUE)")
	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table to use from the definition file")
	cmd.Flags().StringVar(&opts.IDField, "id-field", "", "record identifier field (default from table, else id)")

	return cmd
}

func runBrowse(cmd *cobra.Command, rootOpts *RootOptions, opts *BrowseOptions, recordsPath string) error {
	formatter := rootOpts.formatter(cmd)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = rootOpts.Settings.Config
	}
	table, records, err := loadTable(cmd.Context(), recordsPath, configPath, opts.Table, opts.IDField)
	if err != nil {
		return failLoad(formatter, err)
	}

	view, err := table.NewView(records)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSource, "failed to build view", err)
	}

	title := table.Title
	if title == "" {
		title = table.Name
	}
	model := tui.New(view, tui.Options{Title: title, Debounce: rootOpts.Settings.Debounce})

	final, err := tui.Run(cmd.Context(), model)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "browser failed", err)
	}
	return outputSelection(formatter, final.Selected())
}

// outputSelection prints the records selected in the browser.
func outputSelection(f *OutputFormatter, selected []record.Record) error {
	if f.IsJSON() {
		if selected == nil {
			selected = []record.Record{}
		}
		return f.Success(map[string]any{"selected": selected})
	}
	if len(selected) == 0 {
		return nil
	}
	fmt.Fprintf(f.Writer, "%d selected:\n", len(selected))
	for _, r := range selected {
		fmt.Fprintf(f.Writer, "  %s\n", r.ID)
	}
	return nil
}
