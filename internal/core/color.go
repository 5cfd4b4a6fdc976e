package core

// Color names the role of a screen cell. The terminal layer maps each role
// to a concrete style.
type Color uint8

const (
	ColorDefault Color = iota
	ColorCorner        // lattice points with no wall touching them
	ColorJoint         // lattice points where walls meet
	ColorWall          // discovered walls
	ColorHiddenWall    // walls the party has not seen yet
	ColorParty         // explorer position
	ColorAnchor        // drag anchor point
	ColorCursor        // lattice point under the pointer
	ColorErase         // segment highlighted for erasing
	ColorStatus        // status line text
	ColorError         // status line errors
)

// String returns the role name.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorCorner:
		return "corner"
	case ColorJoint:
		return "joint"
	case ColorWall:
		return "wall"
	case ColorHiddenWall:
		return "hidden-wall"
	case ColorParty:
		return "party"
	case ColorAnchor:
		return "anchor"
	case ColorCursor:
		return "cursor"
	case ColorErase:
		return "erase"
	case ColorStatus:
		return "status"
	case ColorError:
		return "error"
	default:
		return "unknown"
	}
}
