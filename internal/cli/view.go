package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/config"
)

// ViewOptions holds options for the view command.
type ViewOptions struct {
	ConfigPath string
	Table      string
	IDField    string
	flags      viewFlags
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{}

	cmd := &cobra.Command{
		Use:   "view <records>",
		Short: "Print one page of a records file",
		Long: `Load a JSON, JSONL, CSV or Parquet snapshot and print one page after
filtering and sorting it.

Without --config (or a config in settings) the table is inferred from the
records: every field becomes a sortable, filterable column.`,
		Example: `  shiftgrid view shifts.csv --config tables.yaml -q north --sort rate --dir desc
  shiftgrid view shifts.json --where site=depot --columns worker,rate --page 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "table definition file (YAML, JSON or CUE)")
	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table to use from the definition file")
	cmd.Flags().StringVar(&opts.IDField, "id-field", "", "record identifier field (default from table, else id)")
	opts.flags.bind(cmd)

	return cmd
}

func runView(cmd *cobra.Command, rootOpts *RootOptions, opts *ViewOptions, recordsPath string) error {
	formatter := rootOpts.formatter(cmd)
	logger := rootOpts.logger()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = rootOpts.Settings.Config
	}

	table, records, err := loadTable(cmd.Context(), recordsPath, configPath, opts.Table, opts.IDField)
	if err != nil {
		return failLoad(formatter, err)
	}
	logger.Debug("snapshot loaded", "path", recordsPath, "table", table.Name, "records", len(records))

	view, err := table.NewView(records)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSource, "failed to build view", err)
	}
	if err := opts.flags.apply(view, defaultPageSize(table, rootOpts.Settings)); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgs, "invalid view flags", err)
	}

	res := view.Result()
	page := newPageResult(table.Name, res.Columns, res.Rows, res.Total, res.Page, res.PageSize, res.LastPage)
	return outputPage(formatter, res.Columns, view.Sort(), page)
}

// defaultPageSize is the settings page size for tables that set none.
func defaultPageSize(table *config.TableConfig, settings config.Settings) int {
	if table.PageSize > 0 {
		return 0
	}
	return settings.PageSize
}
