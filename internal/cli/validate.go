package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shiftgrid/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Tables []string                 `json:"tables,omitempty"`
	Errors []config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate table definitions",
		Long: `Validate a table definition file (YAML, JSON or CUE).

Reports every problem found: duplicate or empty column keys, unknown
formats and filter types, bad page sizes, windows and default sorts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	file, err := config.Load(path)
	if err != nil {
		var le *config.LoadError
		if errors.As(err, &le) {
			return outputValidateError(formatter, le.Code, le.Message)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}

	formatter.VerboseLog("Loaded %d table(s) from %s", len(file.Tables), path)

	if errs := config.Validate(file); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputValidateSuccess(formatter, file.Names())
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, tables []string) error {
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Tables: tables})
	}

	fmt.Fprintln(formatter.Writer, "✓ Table definitions valid")
	for _, name := range tables {
		fmt.Fprintf(formatter.Writer, "  %s\n", name)
	}
	return nil
}

// outputValidateError outputs an error that prevented validation.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, message)
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, errs []config.ValidationError) error {
	failed := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return failed
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", e.Code, e.Field, e.Message)
	}
	return failed
}
