// Package harness runs grid scenarios and compares their traces against
// golden files.
//
// A scenario loads a snapshot into a fresh view, applies a list of steps the
// way a user would (filtering, sorting, paging, selecting, reshaping columns,
// scrolling, replacing the snapshot) and records the view state after each
// one. Assertions then check that trace.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config: tables.yaml        # optional; inferred from records otherwise
//	table: shifts              # optional with a single-table config
//	records_file: shifts.json  # or inline records:
//	steps:
//	  - action: filter
//	    text: north
//	  - action: sort
//	    key: rate
//	    direction: desc
//	  - action: page
//	    page: 2
//	assertions:
//	  - type: visible_ids
//	    ids: [4, 1]
//	  - type: total
//	    at: 1
//	    value: 3
//
// Paths are relative to the scenario file.
//
// # Assertion Types
//
//   - visible_ids: identifiers on the current page, in order
//   - selected_ids: selected identifiers that exist in the snapshot
//   - rendered_ids: identifiers inside the virtual window
//   - page, last_page, total: pager numbers
//   - window: rendered range [start, end)
//   - columns: visible column keys, in order
//
// Assertions check the final state unless they name a step with at.
//
// # Golden Traces
//
// MarshalTrace renders a trace as JSON lines with a fixed field order, so a
// scenario always produces identical bytes. RunWithGolden compares them with
// testdata/golden/{name}.golden; regenerate with
//
//	go test ./internal/harness -update
package harness
