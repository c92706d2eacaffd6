package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	shiftsFile = "testdata/shifts.json"
	tablesFile = "testdata/tables.yaml"
)

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

type pageEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Dataset  string           `json:"dataset"`
		Columns  []string         `json:"columns"`
		Rows     []map[string]any `json:"rows"`
		Total    int              `json:"total"`
		Page     int              `json:"page"`
		PageSize int              `json:"page_size"`
		LastPage int              `json:"last_page"`
	} `json:"data"`
	Error *CLIError `json:"error"`
}

func decodePage(t *testing.T, out string) pageEnvelope {
	t.Helper()
	var env pageEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	return env
}

// shiftIDs returns the shift_id of each row; JSON numbers decode as float64.
func shiftIDs(rows []map[string]any) []float64 {
	ids := make([]float64, len(rows))
	for i, r := range rows {
		ids[i], _ = r["shift_id"].(float64)
	}
	return ids
}
