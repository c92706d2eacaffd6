// Package source reads record snapshots from files.
//
// Supported formats are JSON arrays of objects, JSON Lines, CSV with a header
// row and Parquet. Every reader returns records in file order and rejects
// snapshots with duplicate identifiers.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/shiftgrid/internal/record"
)

// Format is a record file format.
type Format int

const (
	FormatJSON Format = iota
	FormatJSONLines
	FormatCSV
	FormatParquet
)

// String returns the format's short name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONLines:
		return "jsonl"
	case FormatCSV:
		return "csv"
	case FormatParquet:
		return "parquet"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// ErrUnsupportedFormat is returned for unrecognized file extensions.
var ErrUnsupportedFormat = errors.New("unsupported record format")

// DetectFormat chooses a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONLines, nil
	case ".csv", ".tsv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return 0, fmt.Errorf("%w: %q (use .json, .jsonl, .ndjson, .csv, .tsv or .parquet)", ErrUnsupportedFormat, ext)
	}
}

// Load reads the records in path, taking identifiers from idField.
// An empty idField uses record.DefaultIDField.
func Load(ctx context.Context, path, idField string) ([]record.Record, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	var records []record.Record
	switch format {
	case FormatJSON:
		records, err = ReadJSON(f, idField)
	case FormatJSONLines:
		records, err = ReadJSONLines(f, idField)
	case FormatCSV:
		records, err = ReadCSV(f, idField, CSVOptions{})
	case FormatParquet:
		records, err = ReadParquet(ctx, f, idField)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// ReadJSON reads a JSON array of objects.
func ReadJSON(r io.Reader, idField string) ([]record.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	records, err := record.DecodeJSON(data, idField)
	if err != nil {
		return nil, err
	}
	return checked(records)
}

// checked rejects snapshots with duplicate identifiers.
func checked(records []record.Record) ([]record.Record, error) {
	if err := record.CheckUnique(records); err != nil {
		return nil, err
	}
	return records, nil
}
