// Package cli implements the sheetdiff command line interface.
package cli

import "github.com/spf13/cobra"

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sheetdiff",
		Short: "Compare two Excel workbooks",
		Long: `SheetDiff compares two Excel workbooks row by row and reports added,
removed, and changed rows, either matched on a primary key column or
by position. Results are exported as an Excel report and optionally
as JSON.`,
		SilenceUsage: true,
	}

	root.AddCommand(newCompareCommand())
	root.AddCommand(newSheetsCommand())
	return root
}
