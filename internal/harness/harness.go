package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/shiftgrid/internal/config"
	"github.com/roach88/shiftgrid/internal/grid"
	"github.com/roach88/shiftgrid/internal/record"
	"github.com/roach88/shiftgrid/internal/source"
)

// Harness drives one view through a scenario.
type Harness struct {
	view      *grid.View
	idField   string
	scrollTop float64
	logger    *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load the table definition, or infer one from the records
//  2. Load the snapshot and build a fresh view
//  3. Apply each step, recording the view state after it
//  4. Evaluate assertions against the trace
//
// Step failures are recorded in the trace; an error is returned only when the
// scenario cannot be set up.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	table, records, err := loadTable(ctx, scenario)
	if err != nil {
		return nil, err
	}

	view, err := table.NewView(records)
	if err != nil {
		return nil, fmt.Errorf("failed to build view: %w", err)
	}

	h := &Harness{
		view:    view,
		idField: table.IDFieldOrDefault(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	result.Trace = append(result.Trace, h.snapshot(0, "load", fmt.Sprintf("%d records", len(records))))

	for i, step := range scenario.Steps {
		detail, err := h.apply(step)
		ev := h.snapshot(i+1, step.Action, detail)
		switch {
		case err != nil:
			ev.Error = err.Error()
			if !step.ExpectError {
				result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, step.Action, err))
			}
		case step.ExpectError:
			result.AddError(fmt.Sprintf("steps[%d] %s: expected an error", i, step.Action))
		}
		result.Trace = append(result.Trace, ev)

		h.logger.Info("step completed",
			"step", i,
			"action", step.Action,
			"detail", detail,
			"total", ev.Total,
		)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// loadTable resolves the table definition and the initial snapshot.
func loadTable(ctx context.Context, s *Scenario) (*config.TableConfig, []record.Record, error) {
	var table *config.TableConfig
	if s.Config != "" {
		file, err := config.Load(s.Config)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		if errs := config.Validate(file); len(errs) > 0 {
			return nil, nil, fmt.Errorf("invalid config: %w", errs[0])
		}
		t, ok := file.Table(s.Table)
		if !ok {
			return nil, nil, fmt.Errorf("table %q not found in %s", s.Table, s.Config)
		}
		table = t
	}

	idField := s.IDField
	if idField == "" && table != nil {
		idField = table.IDFieldOrDefault()
	}
	if idField == "" {
		idField = record.DefaultIDField
	}

	var records []record.Record
	var err error
	if s.RecordsFile != "" {
		records, err = source.Load(ctx, s.RecordsFile, idField)
	} else {
		records, err = convertRecords(s.Records, idField)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records: %w", err)
	}

	if table == nil {
		inferred := config.Infer(s.Name, idField, records)
		table = &inferred
	} else if s.IDField != "" {
		t := *table
		t.IDField = s.IDField
		table = &t
	}
	return table, records, nil
}

// convertRecords builds records from YAML-decoded maps.
func convertRecords(rows []map[string]any, idField string) ([]record.Record, error) {
	records := make([]record.Record, 0, len(rows))
	for i, row := range rows {
		r, err := record.FromMap(row, idField)
		if err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// apply performs one step and returns a short description of what it did.
func (h *Harness) apply(st Step) (string, error) {
	v := h.view
	switch st.Action {
	case StepFilter:
		v.SetGlobalFilter(st.Text)
		return st.Text, nil

	case StepFieldFilter:
		v.SetFieldFilter(st.Key, st.Value)
		return st.Key + "=" + st.Value, nil

	case StepClearFilters:
		v.ClearFilters()
		return "", nil

	case StepSort:
		return h.sort(st)

	case StepPage:
		v.SetPage(st.Page)
		return strconv.Itoa(st.Page), nil

	case StepPageSize:
		return strconv.Itoa(st.Size), v.SetPageSize(st.Size)

	case StepSelect, StepDeselect:
		ids, err := convertIDs(st.IDs)
		if err != nil {
			return "", err
		}
		for _, id := range ids {
			if st.Action == StepSelect {
				v.Selection().Add(id)
			} else {
				v.Selection().Remove(id)
			}
		}
		return joinIDs(ids), nil

	case StepTogglePage:
		v.TogglePageSelection()
		return "", nil

	case StepClearSelection:
		v.Selection().Clear()
		return "", nil

	case StepToggleColumn:
		if _, ok := v.Columns().Column(st.Key); !ok {
			return st.Key, fmt.Errorf("unknown column %q", st.Key)
		}
		v.Columns().Toggle(st.Key)
		return st.Key, nil

	case StepToggleAllColumns:
		v.Columns().ToggleAll()
		return "", nil

	case StepMoveColumn:
		detail := st.From + " to " + st.To
		if !v.Columns().Move(st.From, st.To) {
			return detail, fmt.Errorf("cannot move column %q to %q", st.From, st.To)
		}
		return detail, nil

	case StepScroll:
		detail := strconv.FormatFloat(st.ScrollTop, 'f', -1, 64)
		if v.Window() == nil {
			return detail, fmt.Errorf("table has no virtual window")
		}
		h.scrollTop = st.ScrollTop
		return detail, nil

	case StepReplace:
		records, err := convertRecords(st.Records, h.idField)
		if err != nil {
			return "", err
		}
		detail := fmt.Sprintf("%d records", len(records))
		return detail, v.Replace(records)

	default:
		return "", fmt.Errorf("unknown action %q", st.Action)
	}
}

// sort handles the three forms of the sort step: header click, explicit
// direction and "none".
func (h *Harness) sort(st Step) (string, error) {
	v := h.view
	if st.Direction == "none" {
		v.SetSort(nil)
		return "none", nil
	}

	if st.Direction == "" {
		if !v.ToggleSort(st.Key) {
			return st.Key, fmt.Errorf("column %q is unknown or not sortable", st.Key)
		}
		s := v.Sort()
		return s.Key + " " + s.Direction.String(), nil
	}

	dir, err := grid.ParseDirection(st.Direction)
	if err != nil {
		return st.Key, err
	}
	if c, ok := v.Columns().Column(st.Key); !ok || !c.Sortable {
		return st.Key, fmt.Errorf("column %q is unknown or not sortable", st.Key)
	}
	v.SetSort(&grid.SortState{Key: st.Key, Direction: dir})
	return st.Key + " " + dir.String(), nil
}

// snapshot captures the view state after a step.
func (h *Harness) snapshot(step int, action, detail string) TraceEvent {
	res := h.view.Result()
	ev := TraceEvent{
		Step:     step,
		Action:   action,
		Detail:   detail,
		Visible:  record.IDs(res.Rows),
		Total:    res.Total,
		Page:     res.Page,
		LastPage: res.LastPage,
		Selected: record.IDs(res.Selected),
		Columns:  columnKeys(res.Columns),
	}

	if h.view.Window() != nil {
		if virt, err := h.view.Virtual(h.scrollTop); err == nil {
			r := virt.Range
			ev.Window = &r
			ev.Rendered = record.IDs(virt.Rows)
		}
	}
	return ev
}

func columnKeys(cols []grid.Column) []string {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	return keys
}

// convertIDs converts YAML-decoded identifiers. Integers and strings stay
// distinct: 2 and "2" are different records.
func convertIDs(raw []any) ([]record.ID, error) {
	ids := make([]record.ID, len(raw))
	for i, v := range raw {
		id, err := record.IDFromAny(v)
		if err != nil {
			return nil, fmt.Errorf("ids[%d]: %w", i, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func joinIDs(ids []record.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
