package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/registry"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-encode a map in another format",
	Long: `Read <in> and write the same map to <out>. Both formats are chosen by file
extension. Wall visibility is carried over unchanged.

Example:
  gridmap convert maze.json maze.yaml`,
	Args: cobra.ExactArgs(2),
	Run:  runConvert,
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List registered map formats",
	Run:   runFormats,
}

func runConvert(cmd *cobra.Command, args []string) {
	if err := formats.Convert(cmd.Context(), args[0], args[1]); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %s\n", args[1])
}

func runFormats(_ *cobra.Command, _ []string) {
	codecs := registry.List()
	if len(codecs) == 0 {
		fmt.Println("No formats registered.")
		return
	}

	fmt.Println("Map formats:")
	fmt.Println()
	for _, c := range codecs {
		marker := " "
		if c.Name == cfg.Map.DefaultFormat {
			marker = "*"
		}
		fmt.Printf(" %s %-8s %s\n", marker, c.Name, strings.Join(c.Extensions, ", "))
	}
	fmt.Println()
	fmt.Println("* default for file names without an extension")
}
