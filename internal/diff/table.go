package diff

// Cell is an optional string value. A missing cell is distinct from an
// empty string: normalization collapses whitespace-only text to missing,
// so a present cell never holds "".
type Cell struct {
	value   string
	present bool
}

// CellOf returns a present cell holding v.
func CellOf(v string) Cell { return Cell{value: v, present: true} }

// MissingCell returns the canonical missing cell.
func MissingCell() Cell { return Cell{} }

// Missing reports whether the cell holds no value.
func (c Cell) Missing() bool { return !c.present }

// Value returns the cell's text and whether it is present.
func (c Cell) Value() (string, bool) { return c.value, c.present }

// Display returns the cell's text with missing rendered as "".
func (c Cell) Display() string { return c.value }

// Ptr returns the cell's text as a pointer, nil when missing. Field
// changes use it to keep missing visible as JSON null.
func (c Cell) Ptr() *string {
	if !c.present {
		return nil
	}
	v := c.value
	return &v
}

// Equal reports cell equality: both missing, or both present with
// identical text. Missing never equals any present value.
func (c Cell) Equal(o Cell) bool {
	if c.present != o.present {
		return false
	}
	return !c.present || c.value == o.value
}

// Row is one table row. Cells align with the owning table's columns.
type Row []Cell

// RawTable is a table as read from a source, before normalization: a
// header row and string-valued data rows. Rows may be shorter than the
// header; the missing tail cells are treated as blank.
type RawTable struct {
	Label  string
	Header []string
	Rows   [][]string
}

// Table is a normalized rectangular dataset: trimmed, unique column
// names and rows of optional-string cells, every row exactly as wide as
// the header. Tables are read-only once built.
type Table struct {
	label   string
	columns []string
	rows    []Row
	colIdx  map[string]int
}

// Label returns the display name the table was loaded under.
func (t *Table) Label() string { return t.label }

// Columns returns the column names in source order.
func (t *Table) Columns() []string { return t.columns }

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Row returns the row at position i.
func (t *Table) Row(i int) Row { return t.rows[i] }

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.colIdx[name]; ok {
		return i
	}
	return -1
}

// CellAt returns the cell at row i in the named column. An unknown
// column yields a missing cell.
func (t *Table) CellAt(i int, column string) Cell {
	idx, ok := t.colIdx[column]
	if !ok {
		return Cell{}
	}
	return t.rows[i][idx]
}
