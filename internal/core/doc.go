// Package core provides the business logic for workbook comparison.
//
// This package is the heart of the comparison service, containing all
// domain logic independent of any UI or transport layer. It can be used
// by web handlers, CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Sources: A [Source] names a workbook by path or wraps an uploaded
//     io.Reader, so the same operations serve the CLI and the API.
//   - Service: The main entry point for all operations (inspect,
//     preview, compare, export).
//   - Limiter: A [ComparisonLimiter] caps how many comparisons run at
//     once and lets shutdown wait for the active ones to drain.
//   - Error Mapping: Technical errors are translated to stable,
//     user-facing messages with support codes.
//
// # Comparing
//
// A comparison takes two sources, an optional sheet selector per side,
// and a key column. The flow inside [Service.Compare] is:
//
//  1. A limiter slot is acquired, or the call fails fast when the
//     service is saturated.
//  2. Both workbooks load concurrently; either failure cancels the
//     other load.
//  3. The key column is checked against both tables so a bad choice is
//     reported for the exact file (or both) that lacks it.
//  4. The tables are diffed, keyed or positional, and the result is
//     returned under a fresh run ID.
//
// An empty key selects positional matching. [Service.Export] runs the
// same flow and renders the result into a report workbook handed to the
// caller through a temp file.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - KEY001-KEY003: Key errors (missing column, blanks, duplicates)
//   - SHEET001-SHEET002: Sheet errors (unknown selector, empty sheet)
//   - VAL001-VAL002: Header errors (duplicate or unnamed columns)
//   - FILE001-FILE004: File errors (not found, unreadable, too large)
//   - CMP001-CMP003: Comparison errors (saturation, cancel, timeout)
//
// Callers that own a terminal or an HTTP response decide presentation:
// [FormatUserError] renders one line, [NewUserError] keeps the technical
// error attached for logging.
package core
