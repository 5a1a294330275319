package diff

import (
	"fmt"
	"strings"
)

// NormalizeError reports a header problem that makes a table unusable
// for comparison: a column whose name trims to empty, or two columns
// whose names coincide after trimming.
type NormalizeError struct {
	Label  string
	Column string // offending name after trimming, "" for empty headers
	First  int    // zero-based header positions
	Second int
}

func (e *NormalizeError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: column %d has an empty name after trimming", e.Label, e.Second)
	}
	return fmt.Sprintf("%s: duplicate column %q after trimming (positions %d and %d)", e.Label, e.Column, e.First, e.Second)
}

// Normalize converts a raw table into canonical form:
//
//   - column names are trimmed; trailing blank header cells are dropped
//   - every cell is trimmed; cells that trim to "" become missing
//   - rows are padded or truncated to the header width
//
// Column names that collide or trim to empty are rejected, since both
// tables' columns must be addressable by name for matching to make
// sense. Normalizing an already normalized table changes nothing.
func Normalize(raw RawTable) (*Table, error) {
	header := trimTrailingBlank(raw.Header)

	columns := make([]string, len(header))
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &NormalizeError{Label: raw.Label, Second: i}
		}
		if first, dup := colIdx[name]; dup {
			return nil, &NormalizeError{Label: raw.Label, Column: name, First: first, Second: i}
		}
		columns[i] = name
		colIdx[name] = i
	}

	rows := make([]Row, len(raw.Rows))
	for r, rawRow := range raw.Rows {
		row := make(Row, len(columns))
		for c := range columns {
			if c >= len(rawRow) {
				continue
			}
			if v := strings.TrimSpace(rawRow[c]); v != "" {
				row[c] = CellOf(v)
			}
		}
		rows[r] = row
	}

	return &Table{label: raw.Label, columns: columns, rows: rows, colIdx: colIdx}, nil
}

// trimTrailingBlank drops header cells that are blank after trimming
// from the end of the header. Workbook readers emit them for columns
// that are styled but carry no name.
func trimTrailingBlank(header []string) []string {
	end := len(header)
	for end > 0 && strings.TrimSpace(header[end-1]) == "" {
		end--
	}
	return header[:end]
}
