package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose      bool
	Format       string // "json" | "text"
	SettingsPath string

	// Settings are loaded before every command. Flags a command leaves unset
	// fall back to them.
	Settings config.Settings

	// Logger is configured from --verbose and the settings log level.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shiftgrid CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Settings: config.DefaultSettings()}

	cmd := &cobra.Command{
		Use:   "shiftgrid",
		Short: "shiftgrid - tables for shift rosters",
		Long: `Load, filter, sort, page and browse tabular record snapshots.

Snapshots come from JSON, JSONL, CSV or Parquet files, or from a SQLite
store that the HTTP API serves page by page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(opts.SettingsPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load settings", err)
			}
			opts.Settings = settings

			if !cmd.Flags().Changed("format") && settings.Format != "" {
				opts.Format = settings.Format
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose, settings.LogLevel)
			slog.SetDefault(opts.Logger)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.SettingsPath, "settings", "", "settings file (default ./shiftgrid.yaml if present)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewDatasetsCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewBrowseCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger builds the text logger: debug with verbose, otherwise the
// settings level (info when unset or unknown).
func newLogger(w io.Writer, verbose bool, level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// logger returns the configured logger, or a discarding one when the command
// runs without the root pre-run (as in tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
