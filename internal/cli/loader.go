package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/shiftgrid/internal/config"
	"github.com/roach88/shiftgrid/internal/record"
	"github.com/roach88/shiftgrid/internal/source"
	"github.com/roach88/shiftgrid/internal/store"
)

// LoadError represents an error that occurred while loading a table
// definition or snapshot, tagged with the code reported to the user.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadDefinition reads and validates a table definition file.
// An empty path returns a nil file.
func loadDefinition(path string) (*config.File, error) {
	if path == "" {
		return nil, nil
	}
	file, err := config.Load(path)
	if err != nil {
		var le *config.LoadError
		if errors.As(err, &le) {
			return nil, &LoadError{Code: le.Code, Message: le.Message}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "failed to load table definition", Err: err}
	}
	if errs := config.Validate(file); len(errs) > 0 {
		return nil, &LoadError{
			Code:    errs[0].Code,
			Message: fmt.Sprintf("invalid table definition %s: %d error(s), first: %s", path, len(errs), errs[0].Error()),
		}
	}
	return file, nil
}

// selectTable picks the table for a dataset: the named one, else the only
// one, else the one named after the dataset. Returns false when the file has
// no matching table.
func selectTable(file *config.File, name, dataset string) (*config.TableConfig, bool, error) {
	if file == nil {
		return nil, false, nil
	}
	if name != "" {
		t, ok := file.Table(name)
		if !ok {
			return nil, false, &LoadError{
				Code:    ErrCodeNotFound,
				Message: fmt.Sprintf("table %q not found (have %s)", name, strings.Join(file.Names(), ", ")),
			}
		}
		return t, true, nil
	}
	if t, ok := file.Table(""); ok {
		return t, true, nil
	}
	t, ok := file.Table(dataset)
	return t, ok, nil
}

// loadTable reads records from a file and resolves the table that displays
// them. Without a matching definition the table is inferred from the records.
func loadTable(ctx context.Context, recordsPath, configPath, tableName, idField string) (*config.TableConfig, []record.Record, error) {
	if _, err := os.Stat(recordsPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("records file not found: %s", recordsPath)}
	}

	file, err := loadDefinition(configPath)
	if err != nil {
		return nil, nil, err
	}
	name := datasetName(recordsPath)
	table, ok, err := selectTable(file, tableName, name)
	if err != nil {
		return nil, nil, err
	}

	if idField == "" && ok {
		idField = table.IDFieldOrDefault()
	}
	records, err := source.Load(ctx, recordsPath, idField)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeSource, Message: "failed to read records", Err: err}
	}

	if !ok {
		inferred := config.Infer(name, idField, records)
		return &inferred, records, nil
	}
	if idField != table.IDFieldOrDefault() {
		t := *table
		t.IDField = idField
		table = &t
	}
	return table, records, nil
}

// storedTable resolves the table for a stored dataset, inferring one from
// the snapshot when the definition file has none.
func storedTable(ctx context.Context, st *store.Store, file *config.File, tableName, dataset string) (store.SnapshotInfo, *config.TableConfig, error) {
	info, err := st.Snapshot(ctx, dataset)
	if err != nil {
		return store.SnapshotInfo{}, nil, err
	}
	table, ok, err := selectTable(file, tableName, dataset)
	if err != nil {
		return store.SnapshotInfo{}, nil, err
	}
	if ok {
		return info, table, nil
	}

	records, err := st.LoadRecords(ctx, dataset)
	if err != nil {
		return store.SnapshotInfo{}, nil, err
	}
	inferred := config.Infer(dataset, info.IDField, records)
	return info, &inferred, nil
}

// datasetName derives a dataset name from a records path: shifts.csv gives shifts.
func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// failLoad reports a load error with its code. Missing files and bad
// definitions are command errors.
func failLoad(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return f.Fail(ExitCommandError, le.Code, le.Message, le.Err)
	}
	if errors.Is(err, store.ErrDatasetNotFound) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, "dataset not found", err)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, "load failed", err)
}
