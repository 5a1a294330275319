package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/SheetDiff/internal/xlsx"
)

func newSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file>",
		Short: "List the worksheets in a workbook",
		Long: `List the worksheets in a workbook, one per line, prefixed with the
zero-based index accepted by compare's --sheet flag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := xlsx.SheetNames(args[0])
			if err != nil {
				return withUserCode(err)
			}
			for i, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, name)
			}
			return nil
		},
	}
}
