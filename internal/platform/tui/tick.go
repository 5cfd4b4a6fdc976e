// Package tui provides the Bubble Tea front end: the map editor and
// explorer, the library browser and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridmap/internal/watch"
)

// statusTTL is how long a status message stays on screen.
const statusTTL = 4 * time.Second

// clearStatusMsg expires the status message with the given sequence number.
type clearStatusMsg int

// fileChangedMsg reports that the bound map file changed on disk.
type fileChangedMsg string

// watchErrMsg carries a watcher failure.
type watchErrMsg struct{ err error }

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg(seq)
	})
}

// waitForChange blocks until the watcher reports something. It returns nil
// once the watcher is closed.
func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			return fileChangedMsg(path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}
