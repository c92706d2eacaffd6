// Package record provides the value and record types shared by every
// shiftgrid package.
//
// This package imports nothing internal. grid, config, source, store and the
// outer surfaces all build on it.
//
// Key constraints:
//   - Value is sealed: only Null, String, Int, Float and Bool implement it
//   - Null is an explicit value, never a nil interface
//   - Integers decoded from JSON stay Int (json.Number), never float64
//   - An ID is either a string or an integer; "2" and 2 are different ids
package record
