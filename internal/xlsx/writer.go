package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/SheetDiff/internal/diff"
)

// Report sheet names, in workbook order.
const (
	summarySheet = "Summary"
	addedSheet   = "Added_Rows"
	removedSheet = "Removed_Rows"
	changedSheet = "Changed_Cells"
)

// Report bundles a comparison result with the run descriptor rendered
// on the Summary sheet. Key is empty for positional runs.
type Report struct {
	Result *diff.Result
	File1  string
	File2  string
	Sheet  string
	Key    string
}

// NewReportFile renders a report into a fresh workbook with four
// sheets: Summary, Added_Rows, Removed_Rows, and Changed_Cells. The
// caller owns the returned file and must Close it.
func NewReportFile(rep Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := buildReport(f, rep); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func buildReport(f *excelize.File, rep Report) error {
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummary(f, rep); err != nil {
		return fmt.Errorf("write %s: %w", summarySheet, err)
	}
	if err := writeRowSheet(f, addedSheet, rep, rep.Result.AddedRows); err != nil {
		return fmt.Errorf("write %s: %w", addedSheet, err)
	}
	if err := writeRowSheet(f, removedSheet, rep, rep.Result.RemovedRows); err != nil {
		return fmt.Errorf("write %s: %w", removedSheet, err)
	}
	if err := writeChangedCells(f, rep); err != nil {
		return fmt.Errorf("write %s: %w", changedSheet, err)
	}
	return nil
}

func writeSummary(f *excelize.File, rep Report) error {
	sum := rep.Result.Summary

	rows := [][]interface{}{
		{"metric", "value"},
		{"file1", rep.File1},
		{"file2", rep.File2},
		{"sheet", rep.Sheet},
	}
	if rep.Key != "" {
		rows = append(rows, []interface{}{"primary_key", rep.Key})
	} else {
		rows = append(rows, []interface{}{"mode", "position (no primary key)"})
	}
	rows = append(rows,
		[]interface{}{"added_rows", sum.AddedCount},
		[]interface{}{"removed_rows", sum.RemovedCount},
	)
	if rep.Key != "" {
		rows = append(rows, []interface{}{"modified_ids", sum.ModifiedCount})
	} else {
		rows = append(rows, []interface{}{"modified_rows", sum.ModifiedCount})
	}
	rows = append(rows,
		[]interface{}{"columns_only_in_file1", strings.Join(sum.ColumnsOnlyInFile1, ", ")},
		[]interface{}{"columns_only_in_file2", strings.Join(sum.ColumnsOnlyInFile2, ", ")},
	)

	return streamRows(f, summarySheet, rows)
}

// writeRowSheet renders added or removed row projections. The header is
// the common column set; keyless runs get a leading row_index column.
func writeRowSheet(f *excelize.File, sheet string, rep Report, rows []map[string]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := rep.Result.CommonColumns
	if rep.Key == "" {
		header = append([]string{"row_index"}, header...)
	}

	out := make([][]interface{}, 0, len(rows)+1)
	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	out = append(out, head)

	for _, row := range rows {
		vals := make([]interface{}, len(header))
		for i, h := range header {
			vals[i] = row[h]
		}
		out = append(out, vals)
	}

	return streamRows(f, sheet, out)
}

// writeChangedCells renders one row per field change. The identifier
// column is the key name for keyed runs and row_index otherwise;
// missing values render as blank cells.
func writeChangedCells(f *excelize.File, rep Report) error {
	if _, err := f.NewSheet(changedSheet); err != nil {
		return err
	}

	idCol := "row_index"
	if rep.Key != "" {
		idCol = rep.Key
	}

	out := [][]interface{}{{idCol, "column", "file1_value", "file2_value"}}
	for _, mod := range rep.Result.ModifiedRows {
		id := mod.ID
		if rep.Key == "" && mod.RowIndex != nil {
			id = strconv.Itoa(*mod.RowIndex)
		}
		for _, ch := range mod.Changes {
			out = append(out, []interface{}{id, ch.Column, orBlank(ch.OldValue), orBlank(ch.NewValue)})
		}
	}

	return streamRows(f, changedSheet, out)
}

func streamRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func orBlank(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// WriteReportFile renders the report and saves it at path, creating
// parent directories as needed.
func WriteReportFile(path string, rep Report) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := NewReportFile(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// WithTempReport renders the report into a temporary workbook, hands
// the path to fn, and removes the file again on every exit path,
// including fn failing.
func WithTempReport(rep Report, fn func(path string) error) error {
	tmp, err := os.CreateTemp("", "comparison-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	f, err := NewReportFile(rep)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return fmt.Errorf("save temp report: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	return fn(path)
}
