package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeSheets(t *testing.T, path string, names ...string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName() failed: %v", err)
			}
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%s) failed: %v", name, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs(%s) failed: %v", path, err)
	}
}

func TestSheetsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeSheets(t, path, "People", "Q3 Data", "Archive")

	out, err := runRoot(t, "sheets", path)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "0: People\n1: Q3 Data\n2: Archive\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestSheetsCommandMissingFile(t *testing.T) {
	_, err := runRoot(t, "sheets", filepath.Join(t.TempDir(), "nope.xlsx"))
	if err == nil {
		t.Fatal("Execute() succeeded, want file-not-found error")
	}
	for _, want := range []string{"file not found", "FILE001"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestSheetsCommandRequiresArg(t *testing.T) {
	if _, err := runRoot(t, "sheets"); err == nil {
		t.Fatal("Execute() succeeded, want missing argument error")
	}
}
