package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a grid scenario.
// A scenario loads a snapshot, drives a view through a list of steps and
// asserts on the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is an optional table definition file (YAML, JSON or CUE).
	// Without one the table is inferred from the records.
	Config string `yaml:"config,omitempty"`

	// Table selects a table from Config. Empty selects the only table.
	Table string `yaml:"table,omitempty"`

	// IDField overrides the table's identifier field.
	IDField string `yaml:"id_field,omitempty"`

	// Records is the inline snapshot. Mutually exclusive with RecordsFile.
	Records []map[string]any `yaml:"records,omitempty"`

	// RecordsFile is a JSON, JSONL, CSV or Parquet snapshot.
	RecordsFile string `yaml:"records_file,omitempty"`

	// Steps are applied to the view in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user interaction with the view.
// Which fields apply depends on Action.
type Step struct {
	Action string `yaml:"action"`

	// Text is the global filter (filter).
	Text string `yaml:"text,omitempty"`

	// Key is the column (field_filter, sort, toggle_column).
	Key string `yaml:"key,omitempty"`

	// Value is the per-field filter value (field_filter).
	Value string `yaml:"value,omitempty"`

	// Direction sets the sort explicitly (asc, desc). Empty clicks the header;
	// "none" clears the sort.
	Direction string `yaml:"direction,omitempty"`

	// Page is the requested page (page).
	Page int `yaml:"page,omitempty"`

	// Size is the page size (page_size).
	Size int `yaml:"size,omitempty"`

	// IDs are record identifiers (select, deselect).
	IDs []any `yaml:"ids,omitempty"`

	// From and To are column keys (move_column).
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// ScrollTop is the scroll offset (scroll).
	ScrollTop float64 `yaml:"scroll_top,omitempty"`

	// Records is the new snapshot (replace).
	Records []map[string]any `yaml:"records,omitempty"`

	// ExpectError marks a step that must fail, such as a replace with
	// duplicate identifiers.
	ExpectError bool `yaml:"expect_error,omitempty"`
}

// Step actions.
const (
	StepFilter           = "filter"
	StepFieldFilter      = "field_filter"
	StepClearFilters     = "clear_filters"
	StepSort             = "sort"
	StepPage             = "page"
	StepPageSize         = "page_size"
	StepSelect           = "select"
	StepDeselect         = "deselect"
	StepTogglePage       = "toggle_page"
	StepClearSelection   = "clear_selection"
	StepToggleColumn     = "toggle_column"
	StepToggleAllColumns = "toggle_all_columns"
	StepMoveColumn       = "move_column"
	StepScroll           = "scroll"
	StepReplace          = "replace"
)

// Assertion checks one property of a trace event.
type Assertion struct {
	// Type is the assertion type.
	Type string `yaml:"type"`

	// At is the trace step to check; nil checks the final state.
	// Step 0 is the state right after loading.
	At *int `yaml:"at,omitempty"`

	// IDs are expected identifiers in order (visible_ids, selected_ids,
	// rendered_ids).
	IDs []any `yaml:"ids,omitempty"`

	// Value is the expected number (page, last_page, total).
	Value *int `yaml:"value,omitempty"`

	// Start and End are the expected rendered range (window).
	Start *int `yaml:"start,omitempty"`
	End   *int `yaml:"end,omitempty"`

	// Keys are the expected visible column keys in order (columns).
	Keys []string `yaml:"keys,omitempty"`
}

// Assertion type constants.
const (
	AssertVisibleIDs  = "visible_ids"
	AssertSelectedIDs = "selected_ids"
	AssertRenderedIDs = "rendered_ids"
	AssertPage        = "page"
	AssertLastPage    = "last_page"
	AssertTotal       = "total"
	AssertWindow      = "window"
	AssertColumns     = "columns"
)

// LoadScenario reads and parses a scenario YAML file.
// Config and records paths are resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving config and records paths relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	scenario.Config = resolve(basePath, scenario.Config)
	scenario.RecordsFile = resolve(basePath, scenario.RecordsFile)

	if err := validatePaths(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes and validates a scenario document. Paths are left
// as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

func validatePaths(s *Scenario) error {
	for _, p := range []string{s.Config, s.RecordsFile} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}
	return nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.RecordsFile != "" && len(s.Records) > 0 {
		return fmt.Errorf("records and records_file are mutually exclusive")
	}

	if s.Table != "" && s.Config == "" {
		return fmt.Errorf("table %q requires a config file", s.Table)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Steps)); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks the fields a step's action needs.
func validateStep(index int, st *Step) error {
	switch st.Action {
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	case StepFilter, StepClearFilters, StepTogglePage, StepClearSelection,
		StepToggleAllColumns, StepScroll, StepReplace:
	case StepFieldFilter:
		if st.Key == "" {
			return fmt.Errorf("steps[%d]: key is required for field_filter", index)
		}
	case StepSort:
		if st.Key == "" && st.Direction != "none" {
			return fmt.Errorf("steps[%d]: key is required for sort", index)
		}
	case StepToggleColumn:
		if st.Key == "" {
			return fmt.Errorf("steps[%d]: key is required for toggle_column", index)
		}
	case StepPage:
		if st.Page == 0 {
			return fmt.Errorf("steps[%d]: page is required for page", index)
		}
	case StepPageSize:
		if st.Size == 0 {
			return fmt.Errorf("steps[%d]: size is required for page_size", index)
		}
	case StepSelect, StepDeselect:
		if len(st.IDs) == 0 {
			return fmt.Errorf("steps[%d]: ids are required for %s", index, st.Action)
		}
	case StepMoveColumn:
		if st.From == "" || st.To == "" {
			return fmt.Errorf("steps[%d]: from and to are required for move_column", index)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, st.Action)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.At != nil && (*a.At < 0 || *a.At > steps) {
		return fmt.Errorf("assertions[%d]: at must be between 0 and %d, got %d", index, steps, *a.At)
	}

	switch a.Type {
	case AssertVisibleIDs, AssertSelectedIDs, AssertRenderedIDs:
		if a.IDs == nil {
			return fmt.Errorf("assertions[%d]: ids is required for %s (use [] for none)", index, a.Type)
		}
	case AssertPage, AssertLastPage, AssertTotal:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertWindow:
		if a.Start == nil || a.End == nil {
			return fmt.Errorf("assertions[%d]: start and end are required for window", index)
		}
	case AssertColumns:
		if a.Keys == nil {
			return fmt.Errorf("assertions[%d]: keys is required for columns (use [] for none)", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
