package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/editor"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/platform/tui"
	"github.com/vovakirdan/gridmap/internal/watch"
)

var flagWatch bool

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Edit a map interactively",
	Long: `Open the map editor. Drag from a corner with the left mouse button to
draw walls, right-click a wall to remove it. From the keyboard, shift+arrow
draws from the cursor and alt+arrow erases.

When <file> does not exist, a blank map is created and written there on the
first save.

Controls:
  Mouse drag     - Draw walls
  Right click    - Erase a wall
  Arrows / hjkl  - Move the cursor
  Shift+arrows   - Draw from the cursor
  Alt+arrows     - Erase from the cursor
  u / U          - Undo / redo
  Ctrl+S         - Save
  Ctrl+R         - Reload from disk
  Tab            - Switch to explore mode
  + / -          - Zoom
  ?              - Help
  q              - Quit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the file when it changes on disk")
	editCmd.Flags().IntVar(&flagWidth, "width", 0, "Width of a new map (default from config)")
	editCmd.Flags().IntVar(&flagHeight, "height", 0, "Height of a new map (default from config)")
}

func runEdit(cmd *cobra.Command, args []string) {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	session, err := openSession(cmd, path)
	if err != nil {
		fail("%v", err)
	}

	w := startWatcher(path)
	if w != nil {
		defer w.Close()
	}

	if err := tui.Run(cmd.Context(), session, tui.Options{
		Config:  cfg,
		Mode:    tui.ModeEdit,
		Watcher: w,
		Runtime: terminalSize(),
	}); err != nil {
		fail("%v", err)
	}
}

// openSession loads path into a new session, or starts a blank map bound
// to path when the file does not exist yet.
func openSession(cmd *cobra.Command, path string) (*editor.Session, error) {
	opts := editor.Options{StrictLoad: cfg.Map.StrictLoad}

	width, height := cfg.Map.Width, cfg.Map.Height
	if flagWidth > 0 {
		width = flagWidth
	}
	if flagHeight > 0 {
		height = flagHeight
	}
	m, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}
	session := editor.NewSession(m, opts)

	switch {
	case path == "":
	case fileExists(path):
		if err := session.LoadFile(cmd.Context(), path); err != nil {
			return nil, err
		}
	default:
		session.Replace(m, path)
		log.Info("new map", "path", path, "map", m)
	}
	return session, nil
}

// startWatcher watches path when --watch is set. Failures are logged and
// the editor runs without live reload.
func startWatcher(path string) *watch.Watcher {
	if !flagWatch {
		return nil
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Warning: --watch needs a file, ignoring")
		return nil
	}
	w, err := watch.New(path, watch.DefaultDebounce)
	if err != nil {
		log.Warn("live reload disabled", "path", path, "error", err)
		return nil
	}
	return w
}
