package diff

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func keyErrorFrom(t *testing.T, err error) *KeyError {
	t.Helper()
	if err == nil {
		t.Fatal("ValidateKey() = nil, want error")
	}
	var kerr *KeyError
	if !errors.As(err, &kerr) {
		t.Fatalf("error type = %T, want *KeyError", err)
	}
	return kerr
}

func TestValidateKeyNotFound(t *testing.T) {
	tbl := mustTable(t, "file1", []string{"name", "qty"}, []string{"Alpha", "1"})

	kerr := keyErrorFrom(t, ValidateKey(tbl, "id", "file1"))
	if kerr.Kind != KeyNotFound {
		t.Errorf("Kind = %v, want KeyNotFound", kerr.Kind)
	}
	if kerr.Key != "id" || kerr.Label != "file1" {
		t.Errorf("Key/Label = %q/%q, want id/file1", kerr.Key, kerr.Label)
	}
	if want := []string{"name", "qty"}; !reflect.DeepEqual(kerr.Columns, want) {
		t.Errorf("Columns = %v, want %v", kerr.Columns, want)
	}
	if !strings.Contains(kerr.Error(), "name, qty") {
		t.Errorf("Error() = %q, want the column list in the message", kerr.Error())
	}
}

func TestValidateKeyBlankValues(t *testing.T) {
	rows := [][]string{
		{"1", "a"},
		{"", "b"},
		{"3", "c"},
		{"", "d"},
	}
	tbl := mustTable(t, "file2", []string{"id", "v"}, rows...)

	kerr := keyErrorFrom(t, ValidateKey(tbl, "id", "file2"))
	if kerr.Kind != KeyMissingValues {
		t.Errorf("Kind = %v, want KeyMissingValues", kerr.Kind)
	}
	if want := []int{1, 3}; !reflect.DeepEqual(kerr.Rows, want) {
		t.Errorf("Rows = %v, want %v", kerr.Rows, want)
	}
}

func TestValidateKeyBlankValuesCapped(t *testing.T) {
	var rows [][]string
	for i := 0; i < 8; i++ {
		rows = append(rows, []string{"", fmt.Sprintf("v%d", i)})
	}
	tbl := mustTable(t, "file1", []string{"id", "v"}, rows...)

	kerr := keyErrorFrom(t, ValidateKey(tbl, "id", "file1"))
	if got := len(kerr.Rows); got != maxMissingKeySamples {
		t.Errorf("len(Rows) = %d, want %d", got, maxMissingKeySamples)
	}
	if want := []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(kerr.Rows, want) {
		t.Errorf("Rows = %v, want %v", kerr.Rows, want)
	}
}

func TestValidateKeyBlankBeatsDuplicate(t *testing.T) {
	// A table with both problems reports the blank keys first.
	tbl := mustTable(t, "file1", []string{"id"},
		[]string{"1"}, []string{""}, []string{"1"},
	)

	kerr := keyErrorFrom(t, ValidateKey(tbl, "id", "file1"))
	if kerr.Kind != KeyMissingValues {
		t.Errorf("Kind = %v, want KeyMissingValues", kerr.Kind)
	}
}

func TestValidateKeyDuplicates(t *testing.T) {
	tbl := mustTable(t, "file2", []string{"id", "v"},
		[]string{"1", "a"},
		[]string{"2", "b"},
		[]string{"1", "c"},
		[]string{"3", "d"},
		[]string{"2", "e"},
	)

	kerr := keyErrorFrom(t, ValidateKey(tbl, "id", "file2"))
	if kerr.Kind != KeyNotUnique {
		t.Errorf("Kind = %v, want KeyNotUnique", kerr.Kind)
	}
	// Every offending row contributes its value, in row order.
	if want := []string{"1", "2", "1", "2"}; !reflect.DeepEqual(kerr.Dupes, want) {
		t.Errorf("Dupes = %v, want %v", kerr.Dupes, want)
	}
	if kerr.DupeCount != 4 {
		t.Errorf("DupeCount = %d, want 4", kerr.DupeCount)
	}
}

func TestValidateKeyDuplicatesCapped(t *testing.T) {
	var rows [][]string
	for i := 0; i < 13; i++ {
		rows = append(rows, []string{"same"})
	}
	tbl := mustTable(t, "file1", []string{"id"}, rows...)

	kerr := keyErrorFrom(t, ValidateKey(tbl, "id", "file1"))
	if got := len(kerr.Dupes); got != maxDuplicateSamples {
		t.Errorf("len(Dupes) = %d, want %d", got, maxDuplicateSamples)
	}
	if kerr.DupeCount != 13 {
		t.Errorf("DupeCount = %d, want 13", kerr.DupeCount)
	}
}

func TestValidateKeyOK(t *testing.T) {
	tbl := mustTable(t, "file1", []string{"id", "v"},
		[]string{"1", "a"},
		[]string{"2", "a"},
		[]string{"3", ""},
	)

	if err := ValidateKey(tbl, "id", "file1"); err != nil {
		t.Errorf("ValidateKey() = %v, want nil", err)
	}
}
