package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidDefinitions(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), tablesFile)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Table definitions valid")
	assert.Contains(t, out, "shifts")
}

func TestValidateValidDefinitionsJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), tablesFile)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{"shifts"}, resp.Data.Tables)
}

func TestValidateInvalidDefinitions(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "testdata/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E105")
	assert.Contains(t, out, "E120")
}

func TestValidateInvalidDefinitionsJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), "testdata/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotEmpty(t, resp.Data.Errors)
	require.NotNil(t, resp.Error)
	assert.Equal(t, resp.Data.Errors[0].Code, resp.Error.Code)
}

func TestValidateLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", "testdata/nope.yaml", "E005"},
		{"unknown field", "testdata/unknown_field.yaml", "E004"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestValidateRequiresOneArg(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
