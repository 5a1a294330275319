package diff

import "sort"

// ColumnDiff is the column-set difference between two tables. All three
// lists are sorted lexicographically so downstream output is stable no
// matter what order the sources declared their columns in.
type ColumnDiff struct {
	OnlyInLeft  []string
	OnlyInRight []string
	Common      []string
}

// DiffColumns computes the column-set difference between two normalized
// tables. Column differences never fail a comparison; rows are simply
// compared over the common set.
func DiffColumns(left, right *Table) ColumnDiff {
	var d ColumnDiff
	for _, c := range left.columns {
		if right.HasColumn(c) {
			d.Common = append(d.Common, c)
		} else {
			d.OnlyInLeft = append(d.OnlyInLeft, c)
		}
	}
	for _, c := range right.columns {
		if !left.HasColumn(c) {
			d.OnlyInRight = append(d.OnlyInRight, c)
		}
	}
	sort.Strings(d.OnlyInLeft)
	sort.Strings(d.OnlyInRight)
	sort.Strings(d.Common)
	return d
}
