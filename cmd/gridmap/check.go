package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/grid"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate map files",
	Long: `Decode each file, rebuild its grids and check that every wall agrees with
the flags of the cells beside it. Problems are printed with their error code.
The exit status is 1 when any file fails.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) {
	failed := 0
	for _, path := range args {
		if err := checkFile(cmd, path); err != nil {
			failed++
			if code, ok := grid.IsCorrupt(err); ok {
				fmt.Printf("%-8s %s: %s\n", code, path, err)
			} else {
				fmt.Printf("%-8s %s: %v\n", "ERROR", path, err)
			}
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed\n", failed, len(args))
		os.Exit(1)
	}
}

func checkFile(cmd *cobra.Command, path string) error {
	saved, err := formats.ReadFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	m, err := saved.Restore(true)
	if err != nil {
		return err
	}

	visible := 0
	for _, w := range m.Walls().All() {
		if w.Present && w.Visible {
			visible++
		}
	}
	fmt.Printf("%-8s %s: %s, %d visible\n", "OK", path, m, visible)
	return nil
}
