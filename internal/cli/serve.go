package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	DatabasePath string
	ConfigPath   string
	Addr         string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored datasets over HTTP",
		Long: `Serve stored datasets as a read-only JSON API.

Routes:
  GET /healthz              liveness
  GET /{dataset}            one page: q, f.<field>, sort, dir, page, page_size
  GET /{dataset}/columns    the dataset's column definitions

Requests authenticate with the auth_user cookie. SIGINT or SIGTERM shuts the
server down gracefully.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "SQLite database path (default from settings)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "table definition file (YAML, JSON or CUE)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from settings)")

	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, opts *ServeOptions) error {
	formatter := rootOpts.formatter(cmd)
	logger := rootOpts.logger()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = rootOpts.Settings.Config
	}
	file, err := loadDefinition(configPath)
	if err != nil {
		return failLoad(formatter, err)
	}

	addr := opts.Addr
	if addr == "" {
		addr = rootOpts.Settings.Listen
	}

	st, err := openStore(rootOpts, opts.DatabasePath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer st.Close()

	srv := server.New(st,
		server.WithTables(file),
		server.WithLogger(logger),
		server.WithDefaultPageSize(rootOpts.Settings.PageSize),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, addr); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "server failed", err)
	}
	return nil
}
