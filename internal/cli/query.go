package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/querysql"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	DatabasePath string
	Dataset      string
	ConfigPath   string
	Table        string
	flags        viewFlags
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print one page of a stored dataset",
		Long: `Run the filter, sort and page state against a stored dataset in SQLite
and print the resulting page. Only the requested page is read from the
database.

Results equal what view prints for the same records and flags.`,
		Example: `  shiftgrid query --dataset shifts -q north --sort rate --dir desc --page 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "SQLite database path (default from settings)")
	cmd.Flags().StringVarP(&opts.Dataset, "dataset", "d", "", "dataset name (required)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "table definition file (YAML, JSON or CUE)")
	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table to use from the definition file")
	opts.flags.bind(cmd)
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func runQuery(cmd *cobra.Command, rootOpts *RootOptions, opts *QueryOptions) error {
	formatter := rootOpts.formatter(cmd)
	ctx := cmd.Context()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = rootOpts.Settings.Config
	}
	file, err := loadDefinition(configPath)
	if err != nil {
		return failLoad(formatter, err)
	}

	st, err := openStore(rootOpts, opts.DatabasePath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer st.Close()

	info, table, err := storedTable(ctx, st, file, opts.Table, opts.Dataset)
	if err != nil {
		return failLoad(formatter, err)
	}

	// The view holds only state here; rows come from SQL.
	view, err := table.NewView(nil)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSource, "failed to build view", err)
	}
	if err := opts.flags.apply(view, defaultPageSize(table, rootOpts.Settings)); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgs, "invalid view flags", err)
	}

	page, err := st.QueryPage(ctx, querysql.FromQuery(info.Dataset, view.Query()))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "query failed", err)
	}
	rootOpts.logger().Debug("page queried", "dataset", info.Dataset, "page", page.Page, "total", page.Total)

	cols := view.Columns().Visible()
	res := newPageResult(info.Dataset, cols, page.Records, page.Total, page.Page, page.PageSize, page.LastPage)
	return outputPage(formatter, cols, view.Sort(), res)
}
