// Package xlsx adapts workbook files to the comparison engine's table
// model. Reading streams rows through excelize's row iterator instead of
// loading whole sheets; writing renders comparison reports with the
// stream writer. Tables cross this boundary as diff.RawTable values and
// all failures surface as SourceError.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/SheetDiff/internal/diff"
)

// SourceErrorKind classifies source failures.
type SourceErrorKind int

const (
	// SourceNotFound: the workbook file does not exist.
	SourceNotFound SourceErrorKind = iota
	// SourceParse: the workbook or the selected sheet cannot be read.
	SourceParse
)

// SourceError reports an unreadable source. Both kinds are fatal to the
// operation that hit them; there is no partial table.
type SourceError struct {
	Kind    SourceErrorKind
	Locator string // path or upload filename
	Sheet   string // sheet selector, when one was involved
	Err     error
}

func (e *SourceError) Error() string {
	if e.Kind == SourceNotFound {
		return fmt.Sprintf("file not found: %s", e.Locator)
	}
	if e.Sheet != "" {
		return fmt.Sprintf("cannot read %s (sheet %s): %v", e.Locator, e.Sheet, e.Err)
	}
	return fmt.Sprintf("cannot read %s: %v", e.Locator, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Sheet selects one worksheet, by zero-based index or by name. The zero
// value selects the first sheet.
type Sheet struct {
	Name   string
	Index  int
	byName bool
}

// SheetByIndex selects the worksheet at a zero-based position.
func SheetByIndex(i int) Sheet { return Sheet{Index: i} }

// SheetByName selects a worksheet by its exact name.
func SheetByName(name string) Sheet { return Sheet{Name: name, byName: true} }

// ParseSheet reads a sheet selector from user input: digits select by
// index, anything else by name, and blank selects the first sheet.
func ParseSheet(s string) Sheet {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sheet{}
	}
	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err == nil {
			return Sheet{Index: n}
		}
	}
	return Sheet{Name: s, byName: true}
}

// String renders the selector the way it was given: the name, or the
// index in decimal.
func (s Sheet) String() string {
	if s.byName {
		return s.Name
	}
	return strconv.Itoa(s.Index)
}

func (s Sheet) resolve(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if s.byName {
		for _, name := range sheets {
			if name == s.Name {
				return name, nil
			}
		}
		return "", fmt.Errorf("worksheet %q does not exist", s.Name)
	}
	if s.Index < 0 || s.Index >= len(sheets) {
		return "", fmt.Errorf("worksheet index %d out of range, workbook has %d sheet(s)", s.Index, len(sheets))
	}
	return sheets[s.Index], nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ReadTable loads one worksheet from the workbook at path. The first
// row is the header, everything after it is data, and label names the
// table in downstream errors.
func ReadTable(path string, sheet Sheet, label string) (diff.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return diff.RawTable{}, &SourceError{Kind: SourceNotFound, Locator: path, Err: err}
		}
		return diff.RawTable{}, &SourceError{Kind: SourceParse, Locator: path, Err: err}
	}
	defer f.Close()
	return readTable(f, path, sheet, label)
}

// ReadTableFrom loads one worksheet from an in-memory workbook, as
// received from an upload. locator names the source in errors.
func ReadTableFrom(r io.Reader, sheet Sheet, locator, label string) (diff.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return diff.RawTable{}, &SourceError{Kind: SourceParse, Locator: locator, Err: err}
	}
	defer f.Close()
	return readTable(f, locator, sheet, label)
}

func readTable(f *excelize.File, locator string, sheet Sheet, label string) (diff.RawTable, error) {
	name, err := sheet.resolve(f)
	if err != nil {
		return diff.RawTable{}, &SourceError{Kind: SourceParse, Locator: locator, Sheet: sheet.String(), Err: err}
	}

	rows, err := f.Rows(name)
	if err != nil {
		return diff.RawTable{}, &SourceError{Kind: SourceParse, Locator: locator, Sheet: name, Err: err}
	}
	defer rows.Close()

	raw := diff.RawTable{Label: label}
	sawHeader := false
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return diff.RawTable{}, &SourceError{Kind: SourceParse, Locator: locator, Sheet: name, Err: err}
		}
		if !sawHeader {
			raw.Header = cells
			sawHeader = true
			continue
		}
		raw.Rows = append(raw.Rows, cells)
	}
	if err := rows.Error(); err != nil {
		return diff.RawTable{}, &SourceError{Kind: SourceParse, Locator: locator, Sheet: name, Err: err}
	}
	if !sawHeader {
		return diff.RawTable{}, &SourceError{Kind: SourceParse, Locator: locator, Sheet: name, Err: errors.New("empty sheet: no header row")}
	}

	raw.Rows = trimTrailingEmptyRows(raw.Rows)
	return raw, nil
}

// trimTrailingEmptyRows drops fully blank rows from the end of the
// data. Sheets often carry styled rows past the real content and those
// must not count as table rows.
func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && rowIsBlank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// SheetNames lists the worksheets in the workbook at path, in workbook
// order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceError{Kind: SourceNotFound, Locator: path, Err: err}
		}
		return nil, &SourceError{Kind: SourceParse, Locator: path, Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// SheetNamesFrom lists the worksheets of an in-memory workbook.
func SheetNamesFrom(r io.Reader, locator string) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &SourceError{Kind: SourceParse, Locator: locator, Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
