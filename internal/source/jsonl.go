package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/shiftgrid/internal/record"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 4 << 20

// ReadJSONLines reads one JSON object per line. Blank lines are skipped.
func ReadJSONLines(r io.Reader, idField string) ([]record.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []record.Record
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var row map[string]any
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if dec.InputOffset() != int64(len(text)) {
			return nil, fmt.Errorf("line %d: trailing data after object", line)
		}

		rec, err := record.FromMap(row, idField)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl: %w", err)
	}
	return checked(records)
}
