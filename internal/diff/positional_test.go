package diff

import (
	"reflect"
	"testing"
)

func TestComparePositionalTailRemoved(t *testing.T) {
	// Five rows against three: rows 3 and 4 are removed, nothing added.
	left := mustTable(t, "file1", []string{"v"},
		[]string{"r0"}, []string{"r1"}, []string{"r2"}, []string{"r3"}, []string{"r4"},
	)
	right := mustTable(t, "file2", []string{"v"},
		[]string{"r0"}, []string{"r1"}, []string{"r2"},
	)

	res, err := Compare(left, right, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	if res.Summary.AddedCount != 0 || res.Summary.RemovedCount != 2 || res.Summary.ModifiedCount != 0 {
		t.Errorf("Summary counts = %d/%d/%d, want 0/2/0",
			res.Summary.AddedCount, res.Summary.RemovedCount, res.Summary.ModifiedCount)
	}

	var indices []string
	for _, row := range res.RemovedRows {
		indices = append(indices, row["row_index"])
	}
	if want := []string{"3", "4"}; !reflect.DeepEqual(indices, want) {
		t.Errorf("removed row_index values = %v, want %v", indices, want)
	}
	if got := res.RemovedRows[0]["v"]; got != "r3" {
		t.Errorf("RemovedRows[0][v] = %q, want %q", got, "r3")
	}
}

func TestComparePositionalTailAdded(t *testing.T) {
	left := mustTable(t, "file1", []string{"v"}, []string{"r0"})
	right := mustTable(t, "file2", []string{"v"},
		[]string{"r0"}, []string{"r1"}, []string{"r2"},
	)

	res, err := Compare(left, right, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	if res.Summary.AddedCount != 2 || res.Summary.RemovedCount != 0 {
		t.Errorf("added/removed = %d/%d, want 2/0", res.Summary.AddedCount, res.Summary.RemovedCount)
	}
	if got := res.AddedRows[0]["row_index"]; got != "1" {
		t.Errorf("AddedRows[0][row_index] = %q, want %q", got, "1")
	}
}

func TestComparePositionalModified(t *testing.T) {
	left := mustTable(t, "file1", []string{"a", "b"},
		[]string{"1", "x"},
		[]string{"2", "y"},
	)
	right := mustTable(t, "file2", []string{"a", "b"},
		[]string{"1", "x"},
		[]string{"2", "z"},
	)

	res, err := Compare(left, right, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	if res.Summary.ModifiedCount != 1 {
		t.Fatalf("ModifiedCount = %d, want 1", res.Summary.ModifiedCount)
	}
	mod := res.ModifiedRows[0]
	if mod.ID != "Row 1" {
		t.Errorf("ID = %q, want %q", mod.ID, "Row 1")
	}
	if mod.RowIndex == nil || *mod.RowIndex != 1 {
		t.Errorf("RowIndex = %v, want 1", mod.RowIndex)
	}
	want := []FieldChange{{Column: "b", OldValue: strPtr("y"), NewValue: strPtr("z")}}
	if !reflect.DeepEqual(mod.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", mod.Changes, want)
	}
}

func TestComparePositionalModifiedOrderedByIndex(t *testing.T) {
	left := mustTable(t, "file1", []string{"v"},
		[]string{"a"}, []string{"b"}, []string{"c"},
	)
	right := mustTable(t, "file2", []string{"v"},
		[]string{"a2"}, []string{"b"}, []string{"c2"},
	)

	res, err := Compare(left, right, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	var indices []int
	for _, mod := range res.ModifiedRows {
		if mod.RowIndex == nil {
			t.Fatal("positional RowIndex is nil")
		}
		indices = append(indices, *mod.RowIndex)
	}
	if want := []int{0, 2}; !reflect.DeepEqual(indices, want) {
		t.Errorf("modified indices = %v, want %v", indices, want)
	}
}

func TestComparePositionalNoCommonColumns(t *testing.T) {
	// With disjoint schemas there is nothing to project, so surplus
	// rows produce no added or removed entries.
	left := mustTable(t, "file1", []string{"a"}, []string{"1"})
	right := mustTable(t, "file2", []string{"b"},
		[]string{"1"}, []string{"2"}, []string{"3"},
	)

	res, err := Compare(left, right, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	if res.Summary.AddedCount != 0 || res.Summary.RemovedCount != 0 || res.Summary.ModifiedCount != 0 {
		t.Errorf("Summary counts = %+v, want all zero", res.Summary)
	}
	if want := []string{"a"}; !reflect.DeepEqual(res.Summary.ColumnsOnlyInFile1, want) {
		t.Errorf("ColumnsOnlyInFile1 = %v, want %v", res.Summary.ColumnsOnlyInFile1, want)
	}
}

func TestComparePositionalMode(t *testing.T) {
	left := mustTable(t, "file1", []string{"v"}, []string{"a"})
	right := mustTable(t, "file2", []string{"v"}, []string{"a"})

	res, err := Compare(left, right, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}
	if res.Mode != ModePositional {
		t.Errorf("Mode = %q, want %q", res.Mode, ModePositional)
	}
}
