package diff

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyErrorKind classifies key validation failures.
type KeyErrorKind int

const (
	// KeyNotFound: the key column does not exist in the table.
	KeyNotFound KeyErrorKind = iota
	// KeyMissingValues: one or more rows have a blank key cell.
	KeyMissingValues
	// KeyNotUnique: one or more key values appear in multiple rows.
	KeyNotUnique
)

// Caps on the samples a KeyError carries. Payloads stay bounded no
// matter how broken the table is.
const (
	maxMissingKeySamples = 5
	maxDuplicateSamples  = 10
)

// KeyError explains why a table cannot be diffed by key. The payload
// carries enough context for direct user display: the table label, the
// key name, and bounded samples of the offending data.
type KeyError struct {
	Kind      KeyErrorKind
	Label     string   // table label, e.g. "file1" or a filename
	Key       string   // the key column name
	Columns   []string // the table's columns, for KeyNotFound
	Rows      []int    // zero-based rows with blank keys, for KeyMissingValues
	Dupes     []string // repeated key values in row order, for KeyNotUnique
	DupeCount int      // total rows carrying a repeated value
}

func (e *KeyError) Error() string {
	switch e.Kind {
	case KeyNotFound:
		return fmt.Sprintf("primary key %q not found in %s. Columns: %s",
			e.Key, e.Label, strings.Join(e.Columns, ", "))
	case KeyMissingValues:
		return fmt.Sprintf("%s has blank values in primary key %q (sample rows: %s). Fill them in or pick another key",
			e.Label, e.Key, joinInts(e.Rows))
	case KeyNotUnique:
		return fmt.Sprintf("%s has duplicate values in primary key %q, but a primary key must be unique. Example duplicates: %s (%d rows affected)",
			e.Label, e.Key, strings.Join(e.Dupes, ", "), e.DupeCount)
	}
	return fmt.Sprintf("invalid primary key %q in %s", e.Key, e.Label)
}

// ValidateKey checks that key identifies every row of t uniquely. The
// checks run in a fixed order and the first failure is returned alone:
// the column must exist, no key cell may be blank, and no key value may
// repeat. A nil return means the table is safe for keyed matching.
func ValidateKey(t *Table, key, label string) error {
	idx := t.ColumnIndex(key)
	if idx < 0 {
		cols := make([]string, len(t.columns))
		copy(cols, t.columns)
		return &KeyError{Kind: KeyNotFound, Label: label, Key: key, Columns: cols}
	}

	var blank []int
	for i, row := range t.rows {
		if row[idx].Missing() {
			blank = append(blank, i)
			if len(blank) == maxMissingKeySamples {
				break
			}
		}
	}
	if len(blank) > 0 {
		return &KeyError{Kind: KeyMissingValues, Label: label, Key: key, Rows: blank}
	}

	counts := make(map[string]int, len(t.rows))
	for _, row := range t.rows {
		v, _ := row[idx].Value()
		counts[v]++
	}
	var dupes []string
	dupRows := 0
	for _, row := range t.rows {
		v, _ := row[idx].Value()
		if counts[v] < 2 {
			continue
		}
		dupRows++
		if len(dupes) < maxDuplicateSamples {
			dupes = append(dupes, v)
		}
	}
	if dupRows > 0 {
		return &KeyError{Kind: KeyNotUnique, Label: label, Key: key, Dupes: dupes, DupeCount: dupRows}
	}

	return nil
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
