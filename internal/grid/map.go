package grid

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Map owns one MapGrid and one WallGrid of identical dimensions. Every wall
// edit goes through SetEdge, which updates both encodings together.
type Map struct {
	cells *MapGrid
	walls *WallGrid
}

// New creates a blank width x height map.
func New(width, height int) (*Map, error) {
	cells, err := NewMapGrid(width, height)
	if err != nil {
		return nil, err
	}
	walls, err := NewWallGrid(width, height)
	if err != nil {
		return nil, err
	}
	return &Map{cells: cells, walls: walls}, nil
}

// Dims returns the map dimensions.
func (m *Map) Dims() Dims {
	return m.cells.dims
}

// Cells gives read access to the cell grid.
func (m *Map) Cells() *MapGrid {
	return m.cells
}

// Walls gives read access to the wall grid.
func (m *Map) Walls() *WallGrid {
	return m.walls
}

// SetEdge places (present) or clears a wall on edge e in both grids.
// It reports whether anything changed. Invalid or out-of-range edges leave
// the map untouched and return the geometry error.
func (m *Map) SetEdge(e Edge, present bool) (bool, error) {
	i, err := m.walls.dims.EdgeIndex(e)
	if err != nil {
		log.Debug("grid: ignoring wall edit", "edge", e, "present", present, "err", err)
		return false, err
	}
	if _, err := m.cells.edgeCells(e); err != nil {
		return false, err
	}

	before := m.walls.walls[i]
	x1, y1, x2, y2 := e.A.X, e.A.Y, e.B.X, e.B.Y
	if present {
		//nolint:errcheck // Edge validated above
		m.cells.addWalls(x1, y1, x2, y2)
		//nolint:errcheck // Edge validated above
		m.walls.addWall(x1, y1, x2, y2)
	} else {
		//nolint:errcheck // Edge validated above
		m.cells.removeWalls(x1, y1, x2, y2)
		//nolint:errcheck // Edge validated above
		m.walls.removeWall(x1, y1, x2, y2)
	}
	return before.Present != present, nil
}

// AddWall places a wall on segment (x1,y1)-(x2,y2).
func (m *Map) AddWall(x1, y1, x2, y2 int) error {
	_, err := m.SetEdge(E(x1, y1, x2, y2), true)
	return err
}

// RemoveWall clears the wall on segment (x1,y1)-(x2,y2).
func (m *Map) RemoveWall(x1, y1, x2, y2 int) error {
	_, err := m.SetEdge(E(x1, y1, x2, y2), false)
	return err
}

// HasWall reports whether a wall is present on e.
func (m *Map) HasWall(e Edge) (bool, error) {
	i, err := m.walls.dims.EdgeIndex(e)
	if err != nil {
		return false, err
	}
	return m.walls.walls[i].Present, nil
}

// ValidateMove reports whether a step from cell pos in direction dir is allowed.
func (m *Map) ValidateMove(pos Point, dir Direction) (bool, error) {
	return m.cells.ValidateMove(pos, dir)
}

// Reveal marks the four sides of a cell as discovered. Presence is untouched.
func (m *Map) Reveal(cell Point) error {
	for _, d := range Directions() {
		e, err := m.walls.dims.CellEdge(cell, d)
		if err != nil {
			return err
		}
		i, err := m.walls.dims.EdgeIndex(e)
		if err != nil {
			return err
		}
		m.walls.reveal(i)
	}
	return nil
}

// CheckConsistency verifies that every segment agrees with the flags of the
// cells it borders. The returned error matches ErrInconsistent.
func (m *Map) CheckConsistency() error {
	if m.cells.dims != m.walls.dims {
		return corrupt(CodeInconsistent, "dimension mismatch: map %dx%d, walls %dx%d",
			m.cells.dims.X, m.cells.dims.Y, m.walls.dims.X, m.walls.dims.Y)
	}

	for e, w := range m.walls.All() {
		cells, err := m.cells.edgeCells(e)
		if err != nil {
			return corrupt(CodeInconsistent, "slot for %s does not resolve: %v", e, err)
		}
		firstSlot, secondSlot := slotUp, slotDown
		if e.Orientation() == Vertical {
			firstSlot, secondSlot = slotRight, slotLeft
		}
		if c := cells[0]; c != NoCell && m.cells.tiles[c].Walls[firstSlot] != w.Present {
			return inconsistency(e, w, c, m.cells.dims)
		}
		if c := cells[1]; c != NoCell && m.cells.tiles[c].Walls[secondSlot] != w.Present {
			return inconsistency(e, w, c, m.cells.dims)
		}
	}
	return nil
}

func inconsistency(e Edge, w Wall, cell int, d Dims) error {
	return corrupt(CodeInconsistent, "segment %s present=%t but cell %s disagrees",
		e, w.Present, P(cell%d.X, cell/d.X))
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	return &Map{cells: m.cells.Clone(), walls: m.walls.Clone()}
}

// Equal returns true if both grids of both maps are equal.
func (m *Map) Equal(other *Map) bool {
	if other == nil {
		return false
	}
	return m.cells.Equal(other.cells) && m.walls.Equal(other.walls)
}

// Snapshot bundles clones of both grids for persistence.
func (m *Map) Snapshot() SavedMap {
	return NewSavedMap(m.walls, m.cells)
}

// String returns a short description of the map.
func (m *Map) String() string {
	d := m.Dims()
	return fmt.Sprintf("map %dx%d (%d walls)", d.X, d.Y, m.walls.PresentCount())
}
