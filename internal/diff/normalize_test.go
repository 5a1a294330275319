package diff

import (
	"errors"
	"testing"
)

// ============================================================================
// Test Helpers
// ============================================================================

func mustTable(t *testing.T, label string, header []string, rows ...[]string) *Table {
	t.Helper()
	tbl, err := Normalize(RawTable{Label: label, Header: header, Rows: rows})
	if err != nil {
		t.Fatalf("Normalize(%s) failed: %v", label, err)
	}
	return tbl
}

func strPtr(s string) *string { return &s }

// ============================================================================
// Normalize Tests
// ============================================================================

func TestNormalizeTrimsHeadersAndCells(t *testing.T) {
	tbl := mustTable(t, "file1",
		[]string{"  id ", "\tname\t"},
		[]string{" 1 ", "  Alpha  "},
	)

	wantCols := []string{"id", "name"}
	for i, want := range wantCols {
		if got := tbl.Columns()[i]; got != want {
			t.Errorf("Columns()[%d] = %q, want %q", i, got, want)
		}
	}

	if got := tbl.CellAt(0, "id").Display(); got != "1" {
		t.Errorf("CellAt(0, id) = %q, want %q", got, "1")
	}
	if got := tbl.CellAt(0, "name").Display(); got != "Alpha" {
		t.Errorf("CellAt(0, name) = %q, want %q", got, "Alpha")
	}
}

func TestNormalizeCollapsesBlankCellsToMissing(t *testing.T) {
	tests := []struct {
		name string
		cell string
	}{
		{"empty string", ""},
		{"spaces", "   "},
		{"tabs and newlines", "\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := mustTable(t, "file1", []string{"a"}, []string{tt.cell})
			if !tbl.CellAt(0, "a").Missing() {
				t.Errorf("CellAt(0, a).Missing() = false, want true for %q", tt.cell)
			}
		})
	}
}

func TestNormalizeAlignsRowWidth(t *testing.T) {
	tbl := mustTable(t, "file1",
		[]string{"a", "b", "c"},
		[]string{"1"},
		[]string{"1", "2", "3", "overflow"},
	)

	// Short row pads with missing cells.
	if !tbl.CellAt(0, "b").Missing() || !tbl.CellAt(0, "c").Missing() {
		t.Error("short row was not padded with missing cells")
	}

	// Long row drops the excess.
	if got := len(tbl.Row(1)); got != 3 {
		t.Errorf("len(Row(1)) = %d, want 3", got)
	}
	if got := tbl.CellAt(1, "c").Display(); got != "3" {
		t.Errorf("CellAt(1, c) = %q, want %q", got, "3")
	}
}

func TestNormalizeDropsTrailingBlankHeaderCells(t *testing.T) {
	tbl := mustTable(t, "file1",
		[]string{"a", "b", "", "  "},
		[]string{"1", "2", "ghost"},
	)

	if got := len(tbl.Columns()); got != 2 {
		t.Fatalf("len(Columns()) = %d, want 2", got)
	}
	if got := len(tbl.Row(0)); got != 2 {
		t.Errorf("len(Row(0)) = %d, want 2", got)
	}
}

func TestNormalizeRejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name       string
		header     []string
		wantColumn string
		wantSecond int
	}{
		{"duplicate after trim", []string{"id", " id "}, "id", 1},
		{"duplicate exact", []string{"a", "b", "a"}, "a", 2},
		{"empty name mid header", []string{"a", "  ", "b"}, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(RawTable{Label: "file1", Header: tt.header})
			if err == nil {
				t.Fatal("Normalize() succeeded, want error")
			}

			var nerr *NormalizeError
			if !errors.As(err, &nerr) {
				t.Fatalf("error type = %T, want *NormalizeError", err)
			}
			if nerr.Column != tt.wantColumn {
				t.Errorf("Column = %q, want %q", nerr.Column, tt.wantColumn)
			}
			if nerr.Second != tt.wantSecond {
				t.Errorf("Second = %d, want %d", nerr.Second, tt.wantSecond)
			}
			if nerr.Label != "file1" {
				t.Errorf("Label = %q, want %q", nerr.Label, "file1")
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tbl := mustTable(t, "file1",
		[]string{"id", "name"},
		[]string{"1", "  Alpha "},
		[]string{"2", ""},
	)

	// Re-normalizing the rendered table must not change any cell.
	again := mustTable(t, "file1", tbl.Columns(),
		[]string{tbl.CellAt(0, "id").Display(), tbl.CellAt(0, "name").Display()},
		[]string{tbl.CellAt(1, "id").Display(), tbl.CellAt(1, "name").Display()},
	)

	for i := 0; i < tbl.RowCount(); i++ {
		for _, col := range tbl.Columns() {
			if !tbl.CellAt(i, col).Equal(again.CellAt(i, col)) {
				t.Errorf("row %d column %q changed on second normalization", i, col)
			}
		}
	}
}

// ============================================================================
// Cell Tests
// ============================================================================

func TestCellEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Cell
		want bool
	}{
		{"both missing", MissingCell(), MissingCell(), true},
		{"both present equal", CellOf("x"), CellOf("x"), true},
		{"both present different", CellOf("x"), CellOf("y"), false},
		{"missing vs present", MissingCell(), CellOf("x"), false},
		{"present vs missing", CellOf("x"), MissingCell(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCellPtr(t *testing.T) {
	if got := MissingCell().Ptr(); got != nil {
		t.Errorf("MissingCell().Ptr() = %v, want nil", *got)
	}
	if got := CellOf("x").Ptr(); got == nil || *got != "x" {
		t.Errorf("CellOf(x).Ptr() = %v, want x", got)
	}
}
