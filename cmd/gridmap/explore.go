package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/editor"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/platform/tui"
)

var flagStart string

var exploreCmd = &cobra.Command{
	Use:   "explore <file>",
	Short: "Walk a map, revealing walls as you go",
	Long: `Open a map read-only and walk it with the arrow keys. Walls start hidden
unless the file marks them visible; entering a cell reveals the walls around
it. Reveals stay in memory and are never written back.

Controls:
  Arrows / hjkl  - Move
  v              - Show hidden walls
  + / -          - Zoom
  ?              - Help
  q              - Quit`,
	Args: cobra.ExactArgs(1),
	Run:  runExplore,
}

func init() {
	exploreCmd.Flags().BoolVar(&flagWatch, "watch", false, "Restart on the new map when the file changes")
	exploreCmd.Flags().StringVar(&flagStart, "start", "0,0", "Starting cell as x,y")
}

func runExplore(cmd *cobra.Command, args []string) {
	path := args[0]
	session := editor.NewSession(nil, editor.Options{StrictLoad: cfg.Map.StrictLoad})
	if err := session.LoadFile(cmd.Context(), path); err != nil {
		fail("%v", err)
	}
	start, err := parsePoint(flagStart)
	if err != nil {
		fail("--start: %v", err)
	}
	if d := session.Map().Dims(); !d.ContainsCell(start) {
		fail("--start %s is outside the %dx%d map", start, d.X, d.Y)
	}

	w := startWatcher(path)
	if w != nil {
		defer w.Close()
	}

	if err := tui.Run(cmd.Context(), session, tui.Options{
		Config:   cfg,
		ReadOnly: true,
		Watcher:  w,
		Start:    start,
		Runtime:  terminalSize(),
	}); err != nil {
		fail("%v", err)
	}
}

// parsePoint parses "x,y".
func parsePoint(s string) (grid.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Point{}, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Point{}, fmt.Errorf("bad y: %w", err)
	}
	return grid.P(x, y), nil
}
