// Package grid implements the shiftgrid tabular data engine.
//
// The engine is a one-directional pipeline over an in-memory snapshot:
//
//	RowStore -> Filter -> Sort -> Paginate | Window -> rendered rows
//
// Selection and column visibility are orthogonal state that decorate the
// pipeline's output. Every stage is a pure function of its inputs; View only
// owns the state the stages are recomputed from.
//
// Invariants:
//   - Identifiers are unique within a RowStore snapshot
//   - A snapshot is replaced wholesale, never mutated in place
//   - Sort is stable and always places null values last
//   - Pagination never clamps: an out-of-range page yields no rows
//   - Selection survives filter, sort, page and snapshot changes; ids whose
//     record disappeared are dropped only when the selection is resolved
//   - Column keys are unique within a ColumnModel
//
// View is not safe for concurrent use. It is driven by a single UI loop.
// Debouncer is the one timing-sensitive component and is safe to call from
// any goroutine.
package grid
