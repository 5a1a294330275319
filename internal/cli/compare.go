package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/SheetDiff/internal/core"
	"github.com/JonMunkholm/SheetDiff/internal/diff"
	"github.com/JonMunkholm/SheetDiff/internal/xlsx"
)

// jsonArtifact is written beside the output workbook when --json is set.
const jsonArtifact = "comparison_result.json"

// compareOptions carries the compare command's flag values.
type compareOptions struct {
	file1     string
	file2     string
	output    string
	key       string
	noKey     bool
	sheet     string
	writeJSON bool
}

func newCompareCommand() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two workbooks and export the result",
		Long: `Compare two Excel workbooks and export the differences as a report
workbook with Summary, Added_Rows, Removed_Rows, and Changed_Cells
sheets.

Rows are matched on the --key column by default; pass --no-key to
match purely by row position instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.file1, "file1", "input/file1.xlsx", "path to the first workbook")
	flags.StringVar(&opts.file2, "file2", "input/file2.xlsx", "path to the second workbook")
	flags.StringVar(&opts.output, "output", "output/comparison_result.xlsx", "output workbook path")
	flags.StringVar(&opts.key, "key", "EMP_ID", "primary key column used to match rows")
	flags.BoolVar(&opts.noKey, "no-key", false, "compare by row position (no primary key)")
	flags.StringVar(&opts.sheet, "sheet", "0", "sheet name or zero-based index, applied to both files")
	flags.BoolVar(&opts.writeJSON, "json", false, "also write "+jsonArtifact+" beside the output workbook")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *compareOptions) error {
	out := cmd.OutOrStdout()

	key := strings.TrimSpace(opts.key)
	if opts.noKey {
		key = ""
	}
	sheet := xlsx.ParseSheet(opts.sheet)

	fmt.Fprintln(out, "Loading Excel files...")
	left, err := loadTable(opts.file1, sheet, "file1")
	if err != nil {
		return withUserCode(err)
	}
	right, err := loadTable(opts.file2, sheet, "file2")
	if err != nil {
		return withUserCode(err)
	}

	if key != "" {
		fmt.Fprintln(out, "Comparing (by primary key)...")
	} else {
		fmt.Fprintln(out, "Comparing (by row position, no primary key)...")
	}

	result, err := diff.Compare(left, right, diff.Options{Key: key})
	if err != nil {
		return withUserCode(err)
	}

	if opts.writeJSON {
		jsonPath := filepath.Join(filepath.Dir(opts.output), jsonArtifact)
		if err := writeResultJSON(jsonPath, result); err != nil {
			return err
		}
		fmt.Fprintf(out, "JSON for frontend: %s\n", jsonPath)
	}

	fmt.Fprintln(out, "Summary")
	fmt.Fprintf(out, "  Added rows   : %d\n", result.Summary.AddedCount)
	fmt.Fprintf(out, "  Removed rows : %d\n", result.Summary.RemovedCount)
	if key != "" {
		fmt.Fprintf(out, "  Modified IDs : %d\n", result.Summary.ModifiedCount)
	} else {
		fmt.Fprintf(out, "  Modified rows: %d\n", result.Summary.ModifiedCount)
	}

	fmt.Fprintln(out, "Exporting result...")
	rep := xlsx.Report{
		Result: result,
		File1:  opts.file1,
		File2:  opts.file2,
		Sheet:  sheet.String(),
		Key:    key,
	}
	if err := xlsx.WriteReportFile(opts.output, rep); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved: %s\n", opts.output)
	return nil
}

func loadTable(path string, sheet xlsx.Sheet, label string) (*diff.Table, error) {
	raw, err := xlsx.ReadTable(path, sheet, label)
	if err != nil {
		return nil, err
	}
	return diff.Normalize(raw)
}

// writeResultJSON renders the result the way the API serves it, two-space
// indented, creating the output directory as needed.
func writeResultJSON(path string, result *diff.Result) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// withUserCode appends the mapped support code and action to errors the
// user can fix, so the terminal message matches what the web UI shows.
func withUserCode(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	msg := core.MapError(err)
	return fmt.Errorf("%w (Code: %s). %s", err, msg.Code, msg.Action)
}
