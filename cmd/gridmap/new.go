package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/grid"
)

var (
	flagWidth  int
	flagHeight int
	flagBorder bool
	flagForce  bool
)

var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Create a blank map file",
	Long: `Create a map with no walls and write it to <file>. The format follows the
file extension (see 'gridmap formats'); a name without one gets the
default format.

Examples:
  gridmap new maze.json
  gridmap new maze.yaml --width 30 --height 20 --border`,
	Args: cobra.ExactArgs(1),
	Run:  runNew,
}

func init() {
	newCmd.Flags().IntVar(&flagWidth, "width", 0, "Map width in cells (default from config)")
	newCmd.Flags().IntVar(&flagHeight, "height", 0, "Map height in cells (default from config)")
	newCmd.Flags().BoolVar(&flagBorder, "border", false, "Surround the map with walls")
	newCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
}

func runNew(cmd *cobra.Command, args []string) {
	path := withDefaultExt(args[0])
	if fileExists(path) && !flagForce {
		fail("%s already exists (use --force to overwrite)", path)
	}

	width, height := cfg.Map.Width, cfg.Map.Height
	if flagWidth > 0 {
		width = flagWidth
	}
	if flagHeight > 0 {
		height = flagHeight
	}

	m, err := grid.New(width, height)
	if err != nil {
		fail("%v", err)
	}
	if flagBorder {
		if err := addBorder(m); err != nil {
			fail("%v", err)
		}
	}

	if err := formats.Save(cmd.Context(), path, m); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Created %s: %s\n", path, m)
}

// addBorder walls off the outside of the map.
func addBorder(m *grid.Map) error {
	d := m.Dims()
	for x := 0; x < d.X; x++ {
		if err := m.AddWall(x, 0, x+1, 0); err != nil {
			return err
		}
		if err := m.AddWall(x, d.Y, x+1, d.Y); err != nil {
			return err
		}
	}
	for y := 0; y < d.Y; y++ {
		if err := m.AddWall(0, y, 0, y+1); err != nil {
			return err
		}
		if err := m.AddWall(d.X, y, d.X, y+1); err != nil {
			return err
		}
	}
	return nil
}
