package main

import (
	"os"

	"github.com/JonMunkholm/SheetDiff/internal/cli"
)

func main() {
	// Cobra prints the error itself; main only sets the exit status.
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
