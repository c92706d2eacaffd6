package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/store"
)

// ImportOptions holds options for the import command.
type ImportOptions struct {
	DatabasePath string
	Dataset      string
	ConfigPath   string
	Table        string
	IDField      string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <records>",
		Short: "Store a records file as a dataset snapshot",
		Long: `Read a JSON, JSONL, CSV or Parquet snapshot and store it in the SQLite
database, replacing the dataset's previous snapshot atomically.

Duplicate record identifiers reject the whole file and leave the previous
snapshot in place.`,
		Example: `  shiftgrid import shifts.csv --db shiftgrid.db
  shiftgrid import roster.parquet --dataset shifts --id-field shift_id`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "SQLite database path (default from settings)")
	cmd.Flags().StringVarP(&opts.Dataset, "dataset", "d", "", "dataset name (default: records file name without extension)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "table definition file supplying the id field")
	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table to use from the definition file")
	cmd.Flags().StringVar(&opts.IDField, "id-field", "", "record identifier field (default from table, else id)")

	return cmd
}

func runImport(cmd *cobra.Command, rootOpts *RootOptions, opts *ImportOptions, recordsPath string) error {
	formatter := rootOpts.formatter(cmd)
	logger := rootOpts.logger()
	ctx := cmd.Context()

	dataset := opts.Dataset
	if dataset == "" {
		dataset = datasetName(recordsPath)
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = rootOpts.Settings.Config
	}

	table, records, err := loadTable(ctx, recordsPath, configPath, opts.Table, opts.IDField)
	if err != nil {
		return failLoad(formatter, err)
	}

	st, err := openStore(rootOpts, opts.DatabasePath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer st.Close()

	snapshotID, err := st.ReplaceSnapshot(ctx, dataset, table.IDFieldOrDefault(), records)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "import failed", err)
	}
	info, err := st.Snapshot(ctx, dataset)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read snapshot", err)
	}
	logger.Info("snapshot imported", "dataset", dataset, "snapshot_id", snapshotID, "records", info.Records)

	if formatter.IsJSON() {
		return formatter.Success(info)
	}
	fmt.Fprintf(formatter.Writer, "imported %d records into %s (snapshot %s)\n", info.Records, info.Dataset, info.SnapshotID)
	return nil
}

// openStore opens the database named by the flag, else by settings.
func openStore(rootOpts *RootOptions, path string) (*store.Store, error) {
	if path == "" {
		path = rootOpts.Settings.Database
	}
	if path == "" {
		return nil, fmt.Errorf("no database: pass --db or set database in settings")
	}
	return store.Open(path, store.WithLogger(rootOpts.logger()))
}
