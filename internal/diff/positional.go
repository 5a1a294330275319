package diff

import "fmt"

// comparePositional matches row N of the left table with row N of the
// right table. A row-count mismatch is not an error: the longer table's
// tail becomes added rows (right longer) or removed rows (left longer).
//
// Overlapping rows are compared over the common columns only, so two
// tables with disjoint schemas produce no modifications and no tail
// rows regardless of their sizes.
func comparePositional(left, right *Table, cols ColumnDiff) rawDiff {
	d := rawDiff{cols: cols, mode: ModePositional}
	n1, n2 := left.RowCount(), right.RowCount()

	if len(cols.Common) > 0 {
		for i := n1; i < n2; i++ {
			d.added = append(d.added, rowRef{t: right, index: i})
		}
		for i := n2; i < n1; i++ {
			d.removed = append(d.removed, rowRef{t: left, index: i})
		}
	}

	overlap := n1
	if n2 < overlap {
		overlap = n2
	}
	for i := 0; i < overlap; i++ {
		var changes []FieldChange
		for _, col := range cols.Common {
			lv := left.CellAt(i, col)
			rv := right.CellAt(i, col)
			if lv.Equal(rv) {
				continue
			}
			changes = append(changes, FieldChange{Column: col, OldValue: lv.Ptr(), NewValue: rv.Ptr()})
		}
		if len(changes) > 0 {
			idx := i
			d.modified = append(d.modified, RowChange{
				ID:       fmt.Sprintf("Row %d", i),
				RowIndex: &idx,
				Changes:  changes,
			})
		}
	}

	return d
}
