package diff

import "strconv"

// Mode identifies how rows were matched.
type Mode string

const (
	ModeKeyed      Mode = "primary_key"
	ModePositional Mode = "position"
)

// FieldChange is one column's before/after pair inside a modified row.
// OldValue and NewValue are nil when the corresponding cell is missing;
// the equality rule guarantees they are never both nil.
type FieldChange struct {
	Column   string  `json:"column"`
	OldValue *string `json:"old_value"`
	NewValue *string `json:"new_value"`
}

// RowChange is a row classified as modified: its identifier, an optional
// source row position, and the per-column changes in common-column
// order. In keyed mode ID is the key value and RowIndex is nil; in
// positional mode ID reads "Row N" and RowIndex holds N.
type RowChange struct {
	ID       string        `json:"id"`
	RowIndex *int          `json:"row_index,omitempty"`
	Changes  []FieldChange `json:"changes"`
}

// Summary is the count and column overview of one comparison.
type Summary struct {
	AddedCount         int      `json:"added_count"`
	RemovedCount       int      `json:"removed_count"`
	ModifiedCount      int      `json:"modified_count"`
	ColumnsOnlyInFile1 []string `json:"columns_only_in_file1"`
	ColumnsOnlyInFile2 []string `json:"columns_only_in_file2"`
}

// Result is the complete outcome of one comparison. Every slice is
// non-nil so JSON renders [] rather than null, and the value is not
// modified after being returned.
//
// Added and removed rows are projections onto the common columns with
// missing cells rendered as ""; in positional mode each projection also
// carries the source row position under "row_index". Field changes keep
// missing cells as explicit nulls instead.
type Result struct {
	Summary      Summary             `json:"summary"`
	AddedRows    []map[string]string `json:"added_rows"`
	RemovedRows  []map[string]string `json:"removed_rows"`
	ModifiedRows []RowChange         `json:"modified_rows"`

	// Mode is set in positional mode only; keyed results omit it from
	// the payload and callers already know the mode they asked for.
	Mode Mode `json:"mode,omitempty"`

	// CommonColumns records the compared column set for exporters. It
	// is not part of the serialized result.
	CommonColumns []string `json:"-"`
}

// rowRef points at one source row; the table is needed to project the
// row onto the common columns by name.
type rowRef struct {
	t     *Table
	index int
}

// rawDiff is the engines' output before shaping.
type rawDiff struct {
	cols     ColumnDiff
	added    []rowRef
	removed  []rowRef
	modified []RowChange
	mode     Mode
}

// shape turns raw engine output into the Result consumed by the API,
// the CLI, and the exporter.
func shape(d rawDiff) *Result {
	res := &Result{
		Summary: Summary{
			AddedCount:         len(d.added),
			RemovedCount:       len(d.removed),
			ModifiedCount:      len(d.modified),
			ColumnsOnlyInFile1: emptyIfNil(d.cols.OnlyInLeft),
			ColumnsOnlyInFile2: emptyIfNil(d.cols.OnlyInRight),
		},
		AddedRows:     make([]map[string]string, 0, len(d.added)),
		RemovedRows:   make([]map[string]string, 0, len(d.removed)),
		ModifiedRows:  d.modified,
		CommonColumns: emptyIfNil(d.cols.Common),
	}
	if res.ModifiedRows == nil {
		res.ModifiedRows = []RowChange{}
	}

	withIndex := d.mode == ModePositional
	for _, ref := range d.added {
		res.AddedRows = append(res.AddedRows, projectRow(ref, d.cols.Common, withIndex))
	}
	for _, ref := range d.removed {
		res.RemovedRows = append(res.RemovedRows, projectRow(ref, d.cols.Common, withIndex))
	}

	if d.mode == ModePositional {
		res.Mode = ModePositional
	}
	return res
}

// projectRow renders one source row onto the common columns, missing
// cells as "". Positional projections carry the source row position as
// a string under "row_index", matching the export layout for keyless
// runs.
func projectRow(ref rowRef, columns []string, withIndex bool) map[string]string {
	row := make(map[string]string, len(columns)+1)
	if withIndex {
		row["row_index"] = strconv.Itoa(ref.index)
	}
	for _, col := range columns {
		row[col] = ref.t.CellAt(ref.index, col).Display()
	}
	return row
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
