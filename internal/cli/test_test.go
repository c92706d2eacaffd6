package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioDir copies the named scenarios and their fixtures into a temp
// directory laid out like testdata.
func scenarioDir(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))

	for _, f := range []string{"tables.yaml", "shifts.json"} {
		copyFile(t, filepath.Join("testdata", f), filepath.Join(root, f))
	}
	for _, name := range names {
		copyFile(t, filepath.Join("testdata", "scenarios", name+".yaml"), filepath.Join(dir, name+".yaml"))
	}
	return dir
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandPassingScenario(t *testing.T) {
	dir := scenarioDir(t, "north_rates")

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ north_rates")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := scenarioDir(t, "north_rates", "failing")

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "Assertion failed: visible_ids")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := scenarioDir(t, "north_rates", "failing")

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir, "--filter", "north*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "failing")
}

func TestTestCommandGoldenRoundTrip(t *testing.T) {
	dir := scenarioDir(t, "north_rates")
	goldenPath := filepath.Join(dir, "golden", "north_rates.golden")

	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err)
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `{"scenario":"north_rates","steps":3}`)

	_, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err, "trace matches the golden it just wrote")

	require.NoError(t, os.WriteFile(goldenPath, []byte("stale\n"), 0644))
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandJSON(t *testing.T) {
	dir := scenarioDir(t, "north_rates", "failing")

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\nbogus: 1\n"), 0644))

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}
