// Package diff implements the spreadsheet comparison engine.
//
// The engine compares exactly two normalized tables and classifies rows
// as added, removed, or modified. Two matching strategies are supported:
//
//   - Keyed: rows pair up by the value of a caller-chosen key column.
//     Row order is irrelevant; the key must exist, be fully populated,
//     and be unique in both tables.
//
//   - Positional: row N of one table pairs with row N of the other.
//     Surplus tail rows are added or removed; no key is involved.
//
// # Pipeline
//
// Raw tables go through Normalize first, which trims names and cells and
// collapses blank cells to missing. Compare then computes the column-set
// difference, validates the key when one is given, runs the matching
// strategy, and shapes the outcome into a Result.
//
// # Missing values
//
// A missing cell is not an empty string. Equality treats two cells as
// equal when both are missing or both are present with identical text.
// Result shaping renders missing as "" inside added and removed row
// projections, but keeps it as an explicit null in field changes so a
// cleared cell is distinguishable from a blanked one.
//
// The package has no I/O and no dependencies outside the standard
// library; sources and transports live elsewhere.
package diff
