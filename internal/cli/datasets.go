package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/store"
)

// DatasetsOptions holds options for the datasets command.
type DatasetsOptions struct {
	DatabasePath string
	Delete       string
}

// NewDatasetsCommand creates the datasets command.
func NewDatasetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DatasetsOptions{}

	cmd := &cobra.Command{
		Use:           "datasets",
		Short:         "List or delete stored datasets",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasets(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "SQLite database path (default from settings)")
	cmd.Flags().StringVar(&opts.Delete, "delete", "", "delete the named dataset and its records")

	return cmd
}

func runDatasets(cmd *cobra.Command, rootOpts *RootOptions, opts *DatasetsOptions) error {
	formatter := rootOpts.formatter(cmd)
	ctx := cmd.Context()

	st, err := openStore(rootOpts, opts.DatabasePath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer st.Close()

	if opts.Delete != "" {
		if err := st.DeleteDataset(ctx, opts.Delete); err != nil {
			if errors.Is(err, store.ErrDatasetNotFound) {
				return formatter.Fail(ExitCommandError, ErrCodeNotFound, "dataset not found", err)
			}
			return formatter.Fail(ExitCommandError, ErrCodeStore, "delete failed", err)
		}
		if formatter.IsJSON() {
			return formatter.Success(map[string]string{"deleted": opts.Delete})
		}
		fmt.Fprintf(formatter.Writer, "deleted %s\n", opts.Delete)
		return nil
	}

	infos, err := st.Datasets(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list datasets", err)
	}
	if formatter.IsJSON() {
		if infos == nil {
			infos = []store.SnapshotInfo{}
		}
		return formatter.Success(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "no datasets")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%s\t%d records\tid %s\t%s\n",
			info.Dataset, info.Records, info.IDField, info.ReplacedAt.Format(time.RFC3339))
	}
	return nil
}
