package diff

// compareKeyed matches rows by the value of the key column. Both tables
// must have passed ValidateKey: the index build assumes unique,
// non-blank key values.
//
// Classification:
//
//   - added: right-table keys absent from the left, in right-table row order
//   - removed: left-table keys absent from the right, in left-table row order
//   - modified: keys present in both whose rows differ in at least one
//     common column, in left-table row order
//
// Only common columns are compared, and never the key column itself.
func compareKeyed(left, right *Table, cols ColumnDiff, key string) rawDiff {
	leftIdx := buildKeyIndex(left, key)
	rightIdx := buildKeyIndex(right, key)

	d := rawDiff{cols: cols, mode: ModeKeyed}

	for i := 0; i < right.RowCount(); i++ {
		if _, ok := leftIdx[keyAt(right, key, i)]; !ok {
			d.added = append(d.added, rowRef{t: right, index: i})
		}
	}

	for i := 0; i < left.RowCount(); i++ {
		if _, ok := rightIdx[keyAt(left, key, i)]; !ok {
			d.removed = append(d.removed, rowRef{t: left, index: i})
		}
	}

	for i := 0; i < left.RowCount(); i++ {
		k := keyAt(left, key, i)
		ri, ok := rightIdx[k]
		if !ok {
			continue
		}
		var changes []FieldChange
		for _, col := range cols.Common {
			if col == key {
				continue
			}
			lv := left.CellAt(i, col)
			rv := right.CellAt(ri, col)
			if lv.Equal(rv) {
				continue
			}
			changes = append(changes, FieldChange{Column: col, OldValue: lv.Ptr(), NewValue: rv.Ptr()})
		}
		if len(changes) > 0 {
			d.modified = append(d.modified, RowChange{ID: k, Changes: changes})
		}
	}

	return d
}

// buildKeyIndex maps each key value to its row position.
func buildKeyIndex(t *Table, key string) map[string]int {
	col := t.ColumnIndex(key)
	idx := make(map[string]int, t.RowCount())
	for i, row := range t.rows {
		v, _ := row[col].Value()
		idx[v] = i
	}
	return idx
}

func keyAt(t *Table, key string, i int) string {
	v, _ := t.CellAt(i, key).Value()
	return v
}
