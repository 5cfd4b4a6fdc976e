package core

import "github.com/vovakirdan/gridmap/internal/grid"

// Action is a semantic editor command, abstracted from physical keys.
type Action int

const (
	ActionNone Action = iota
	ActionUp          // move the party or cursor up
	ActionDown        // move the party or cursor down
	ActionLeft        // move the party or cursor left
	ActionRight       // move the party or cursor right
	ActionUndo
	ActionRedo
	ActionSave
	ActionReload
	ActionNew
	ActionZoomIn
	ActionZoomOut
	ActionToggleHidden // show or hide undiscovered walls
	ActionToggleMode   // switch between editing and exploring
	ActionHelp
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:         "None",
	ActionUp:           "Up",
	ActionDown:         "Down",
	ActionLeft:         "Left",
	ActionRight:        "Right",
	ActionUndo:         "Undo",
	ActionRedo:         "Redo",
	ActionSave:         "Save",
	ActionReload:       "Reload",
	ActionNew:          "New",
	ActionZoomIn:       "ZoomIn",
	ActionZoomOut:      "ZoomOut",
	ActionToggleHidden: "ToggleHidden",
	ActionToggleMode:   "ToggleMode",
	ActionHelp:         "Help",
	ActionQuit:         "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Direction maps the four movement actions to a grid direction.
func (a Action) Direction() (grid.Direction, bool) {
	switch a {
	case ActionUp:
		return grid.Up, true
	case ActionDown:
		return grid.Down, true
	case ActionLeft:
		return grid.Left, true
	case ActionRight:
		return grid.Right, true
	default:
		return 0, false
	}
}
