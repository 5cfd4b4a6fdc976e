package grid

// Direction is a movement direction. Values follow the numeric keypad
// (2 down, 4 left, 6 right, 8 up) so raw key codes can be passed through.
type Direction int

const (
	Down  Direction = 2
	Left  Direction = 4
	Right Direction = 6
	Up    Direction = 8
)

// Flag slots inside Tile.Walls.
const (
	slotDown = iota
	slotLeft
	slotUp
	slotRight
)

// Directions returns the four cardinal directions in flag-slot order.
func Directions() []Direction {
	return []Direction{Down, Left, Up, Right}
}

// Valid reports whether d is one of the four cardinal codes.
func (d Direction) Valid() bool {
	switch d {
	case Down, Left, Right, Up:
		return true
	}
	return false
}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Up:
		return "Up"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for one step. Up increases Y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, 1
	default:
		return 0, 0
	}
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return d
	}
}

func (d Direction) slot() int {
	switch d {
	case Down:
		return slotDown
	case Left:
		return slotLeft
	case Up:
		return slotUp
	case Right:
		return slotRight
	default:
		return -1
	}
}
