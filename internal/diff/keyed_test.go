package diff

import (
	"reflect"
	"testing"
)

func keyedFixture(t *testing.T) (*Table, *Table) {
	t.Helper()
	left := mustTable(t, "file1", []string{"id", "name", "qty"},
		[]string{"1", "Alpha", "10"},
		[]string{"2", "Beta", "20"},
		[]string{"3", "Gamma", "30"},
	)
	right := mustTable(t, "file2", []string{"id", "name", "qty"},
		[]string{"2", "Beta", "25"},
		[]string{"4", "Delta", "40"},
		[]string{"1", "Alpha", "10"},
	)
	return left, right
}

func TestCompareKeyedClassification(t *testing.T) {
	left, right := keyedFixture(t)

	res, err := Compare(left, right, Options{Key: "id"})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	if res.Summary.AddedCount != 1 || res.Summary.RemovedCount != 1 || res.Summary.ModifiedCount != 1 {
		t.Errorf("Summary counts = %d/%d/%d, want 1/1/1",
			res.Summary.AddedCount, res.Summary.RemovedCount, res.Summary.ModifiedCount)
	}

	if got := res.AddedRows[0]["id"]; got != "4" {
		t.Errorf("AddedRows[0][id] = %q, want %q", got, "4")
	}
	if got := res.RemovedRows[0]["id"]; got != "3" {
		t.Errorf("RemovedRows[0][id] = %q, want %q", got, "3")
	}

	mod := res.ModifiedRows[0]
	if mod.ID != "2" {
		t.Errorf("ModifiedRows[0].ID = %q, want %q", mod.ID, "2")
	}
	if mod.RowIndex != nil {
		t.Errorf("ModifiedRows[0].RowIndex = %d, want nil", *mod.RowIndex)
	}
	want := []FieldChange{{Column: "qty", OldValue: strPtr("20"), NewValue: strPtr("25")}}
	if !reflect.DeepEqual(mod.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", mod.Changes, want)
	}
}

func TestCompareKeyedPreservesRowOrder(t *testing.T) {
	// Added and removed rows keep source row order, not key order.
	left := mustTable(t, "file1", []string{"id"},
		[]string{"9"}, []string{"5"}, []string{"7"},
	)
	right := mustTable(t, "file2", []string{"id"},
		[]string{"8"}, []string{"2"},
	)

	res, err := Compare(left, right, Options{Key: "id"})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	var addedIDs, removedIDs []string
	for _, row := range res.AddedRows {
		addedIDs = append(addedIDs, row["id"])
	}
	for _, row := range res.RemovedRows {
		removedIDs = append(removedIDs, row["id"])
	}

	if want := []string{"8", "2"}; !reflect.DeepEqual(addedIDs, want) {
		t.Errorf("added ids = %v, want %v", addedIDs, want)
	}
	if want := []string{"9", "5", "7"}; !reflect.DeepEqual(removedIDs, want) {
		t.Errorf("removed ids = %v, want %v", removedIDs, want)
	}
}

func TestCompareKeyedIgnoresKeyColumn(t *testing.T) {
	// The key column never shows up as a field change even though it is
	// a common column.
	left := mustTable(t, "file1", []string{"id", "v"}, []string{"1", "a"})
	right := mustTable(t, "file2", []string{"id", "v"}, []string{"1", "b"})

	res, err := Compare(left, right, Options{Key: "id"})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}
	for _, mod := range res.ModifiedRows {
		for _, ch := range mod.Changes {
			if ch.Column == "id" {
				t.Error("key column reported as a field change")
			}
		}
	}
	if res.Summary.ModifiedCount != 1 {
		t.Errorf("ModifiedCount = %d, want 1", res.Summary.ModifiedCount)
	}
}

func TestCompareKeyedMatchesAcrossPositions(t *testing.T) {
	// Same rows in a different order compare clean.
	left := mustTable(t, "file1", []string{"id", "v"},
		[]string{"1", "a"},
		[]string{"2", "b"},
	)
	right := mustTable(t, "file2", []string{"id", "v"},
		[]string{"2", "b"},
		[]string{"1", "a"},
	)

	res, err := Compare(left, right, Options{Key: "id"})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}
	if res.Summary.AddedCount+res.Summary.RemovedCount+res.Summary.ModifiedCount != 0 {
		t.Errorf("reordered identical tables produced differences: %+v", res.Summary)
	}
}

func TestCompareKeyedModifiedFollowsLeftOrder(t *testing.T) {
	left := mustTable(t, "file1", []string{"id", "v"},
		[]string{"b", "1"},
		[]string{"a", "2"},
	)
	right := mustTable(t, "file2", []string{"id", "v"},
		[]string{"a", "20"},
		[]string{"b", "10"},
	)

	res, err := Compare(left, right, Options{Key: "id"})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}

	var ids []string
	for _, mod := range res.ModifiedRows {
		ids = append(ids, mod.ID)
	}
	if want := []string{"b", "a"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("modified ids = %v, want %v", ids, want)
	}
}
