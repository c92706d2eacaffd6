package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/shiftgrid/internal/record"
)

// CSVOptions controls CSV decoding.
type CSVOptions struct {
	// Comma is the field separator. Zero detects it from the header line.
	Comma rune
	// RawStrings disables type inference: every non-empty cell is a String.
	RawStrings bool
}

// ReadCSV reads a CSV file whose first row names the fields.
//
// Cells are trimmed and inferred: empty cells are Null, integers are Int,
// other numbers are Float, true/false are Bool and everything else is a
// String.
func ReadCSV(r io.Reader, idField string, opts CSVOptions) ([]record.Record, error) {
	br := bufio.NewReader(r)

	comma := opts.Comma
	if comma == 0 {
		head, err := br.Peek(br.Size())
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		comma = DetectSeparator(firstLine(string(head)))
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []record.Record
	for row := 1; ; row++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		m := make(map[string]any, len(header))
		for i, name := range header {
			m[name] = cellValue(strings.TrimSpace(cells[i]), opts.RawStrings)
		}
		rec, err := record.FromMap(m, idField)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return checked(records)
}

// cellValue infers the value of a trimmed cell.
func cellValue(cell string, raw bool) record.Value {
	if cell == "" {
		return record.Null{}
	}
	if raw {
		return record.String(cell)
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return record.Int(n)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return record.FromFloat(f)
	}
	switch strings.ToLower(cell) {
	case "true":
		return record.Bool(true)
	case "false":
		return record.Bool(false)
	}
	return record.String(cell)
}

// DetectSeparator picks the most frequent of comma, semicolon, tab and pipe in
// line, defaulting to comma.
func DetectSeparator(line string) rune {
	best, bestCount := ',', 0
	for _, sep := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
