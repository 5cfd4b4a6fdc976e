package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/grid"
)

// KeyMap defines the key bindings of the map view.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Draw         key.Binding
	Erase        key.Binding
	Undo         key.Binding
	Redo         key.Binding
	Save         key.Binding
	Reload       key.Binding
	New          key.Binding
	ZoomIn       key.Binding
	ZoomOut      key.Binding
	ToggleHidden key.Binding
	ToggleMode   key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Draw, k.Undo, k.Save, k.ToggleMode, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Draw, k.Erase, k.Undo, k.Redo},
		{k.Save, k.Reload, k.New},
		{k.ZoomIn, k.ZoomOut, k.ToggleHidden, k.ToggleMode},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the editor bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Draw: key.NewBinding(
			key.WithKeys("shift+up", "shift+down", "shift+left", "shift+right"),
			key.WithHelp("shift+arrow", "draw wall"),
		),
		Erase: key.NewBinding(
			key.WithKeys("alt+up", "alt+down", "alt+left", "alt+right"),
			key.WithHelp("alt+arrow", "erase wall"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U", "ctrl+y"),
			key.WithHelp("U", "redo"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new map"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "show hidden"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "edit/explore"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ExploreKeyMap returns the bindings for read-only exploring: movement,
// zoom and quit. Everything that edits or touches files is disabled.
func ExploreKeyMap() KeyMap {
	k := DefaultKeyMap()
	for _, b := range []*key.Binding{
		&k.Draw, &k.Erase, &k.Undo, &k.Redo, &k.Save, &k.Reload, &k.New,
		&k.ToggleHidden, &k.ToggleMode,
	} {
		b.SetEnabled(false)
	}
	return k
}

// Action translates a key message to an editor action. Draw and Erase
// chords are reported by Chord instead.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Undo):
		return core.ActionUndo
	case key.Matches(msg, k.Redo):
		return core.ActionRedo
	case key.Matches(msg, k.Save):
		return core.ActionSave
	case key.Matches(msg, k.Reload):
		return core.ActionReload
	case key.Matches(msg, k.New):
		return core.ActionNew
	case key.Matches(msg, k.ZoomIn):
		return core.ActionZoomIn
	case key.Matches(msg, k.ZoomOut):
		return core.ActionZoomOut
	case key.Matches(msg, k.ToggleHidden):
		return core.ActionToggleHidden
	case key.Matches(msg, k.ToggleMode):
		return core.ActionToggleMode
	case key.Matches(msg, k.Help):
		return core.ActionHelp
	}
	return core.ActionNone
}

// Chord reports a draw (present=true) or erase chord and its direction.
func (k KeyMap) Chord(msg tea.KeyMsg) (dir grid.Direction, present, ok bool) {
	switch {
	case key.Matches(msg, k.Draw):
		present = true
	case key.Matches(msg, k.Erase):
	default:
		return 0, false, false
	}
	s := msg.String()
	switch s[strings.LastIndex(s, "+")+1:] {
	case "up":
		return grid.Up, present, true
	case "down":
		return grid.Down, present, true
	case "left":
		return grid.Left, present, true
	case "right":
		return grid.Right, present, true
	}
	return 0, false, false
}
