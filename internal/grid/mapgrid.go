package grid

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NoCell marks the missing side of a boundary edge in GridIndex results.
const NoCell = -1

// Tile is one cell of a MapGrid. Walls holds one flag per side in the
// order down, left, up, right; true blocks movement across that side.
type Tile struct {
	Walls [4]bool `json:"walls" yaml:"walls,flow"`
}

// UnmarshalJSON requires exactly one flag per side. encoding/json would
// otherwise pad a short list and drop the tail of a long one.
func (t *Tile) UnmarshalJSON(data []byte) error {
	var raw struct {
		Walls []bool `json:"walls"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return t.setWalls(raw.Walls)
}

// UnmarshalYAML applies the same rule as UnmarshalJSON.
func (t *Tile) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Walls []bool `yaml:"walls"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return t.setWalls(raw.Walls)
}

func (t *Tile) setWalls(flags []bool) error {
	if len(flags) != len(t.Walls) {
		return corrupt(CodeTileFlags, "tile has %d wall flags, want %d", len(flags), len(t.Walls))
	}
	copy(t.Walls[:], flags)
	return nil
}

// Blocked reports whether the side facing d is walled off.
func (t Tile) Blocked(d Direction) bool {
	s := d.slot()
	if s < 0 {
		return false
	}
	return t.Walls[s]
}

// MapGrid is the per-cell view of the map. Cells are stored in row-major
// order: index = y*dimX + x.
type MapGrid struct {
	dims  Dims
	tiles []Tile
}

// NewMapGrid creates a fully open width x height grid.
func NewMapGrid(width, height int) (*MapGrid, error) {
	dims, err := NewDims(width, height)
	if err != nil {
		return nil, err
	}
	return &MapGrid{
		dims:  dims,
		tiles: make([]Tile, dims.CellCount()),
	}, nil
}

// Dims returns the grid dimensions.
func (g *MapGrid) Dims() Dims {
	return g.dims
}

// Len returns the number of cells.
func (g *MapGrid) Len() int {
	return len(g.tiles)
}

// CellIndex converts a cell coordinate to a flat index.
func (g *MapGrid) CellIndex(x, y int) (int, error) {
	return g.dims.CellIndex(x, y)
}

// Tile returns the cell at (x, y).
func (g *MapGrid) Tile(x, y int) (Tile, error) {
	i, err := g.dims.CellIndex(x, y)
	if err != nil {
		return Tile{}, err
	}
	return g.tiles[i], nil
}

// Tiles returns a copy of the flat tile sequence.
func (g *MapGrid) Tiles() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// GridIndex returns the indices of the cells bordering the segment
// (x1,y1)-(x2,y2): [below, above] for a horizontal segment and [left, right]
// for a vertical one. A side beyond the map boundary is NoCell.
func (g *MapGrid) GridIndex(x1, y1, x2, y2 int) ([2]int, error) {
	return g.edgeCells(E(x1, y1, x2, y2))
}

func (g *MapGrid) edgeCells(e Edge) ([2]int, error) {
	cells := [2]int{NoCell, NoCell}
	if !e.Valid() {
		return cells, fmt.Errorf("%w: %s", ErrInvalidLine, e)
	}
	if !g.dims.ContainsLattice(e.A) || !g.dims.ContainsLattice(e.B) {
		return cells, fmt.Errorf("%w: edge %s", ErrOutOfBounds, e)
	}

	a := e.Anchor()
	var first, second Point
	if e.Orientation() == Horizontal {
		first, second = a.Add(0, -1), a
	} else {
		first, second = a.Add(-1, 0), a
	}
	if i, err := g.dims.CellIndex(first.X, first.Y); err == nil {
		cells[0] = i
	}
	if i, err := g.dims.CellIndex(second.X, second.Y); err == nil {
		cells[1] = i
	}
	return cells, nil
}

// setWalls updates the flags facing e on the one or two cells it borders.
// Only Map calls this, together with the matching WallGrid update.
func (g *MapGrid) setWalls(e Edge, present bool) error {
	cells, err := g.edgeCells(e)
	if err != nil {
		return err
	}

	firstSlot, secondSlot := slotUp, slotDown
	if e.Orientation() == Vertical {
		firstSlot, secondSlot = slotRight, slotLeft
	}
	if cells[0] != NoCell {
		g.tiles[cells[0]].Walls[firstSlot] = present
	}
	if cells[1] != NoCell {
		g.tiles[cells[1]].Walls[secondSlot] = present
	}
	return nil
}

func (g *MapGrid) addWalls(x1, y1, x2, y2 int) error {
	return g.setWalls(E(x1, y1, x2, y2), true)
}

func (g *MapGrid) removeWalls(x1, y1, x2, y2 int) error {
	return g.setWalls(E(x1, y1, x2, y2), false)
}

// ValidateMove reports whether a step from cell pos in direction dir is
// allowed. Leaving the grid is always blocked, whatever the flags say.
func (g *MapGrid) ValidateMove(pos Point, dir Direction) (bool, error) {
	if !dir.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	i, err := g.dims.CellIndex(pos.X, pos.Y)
	if err != nil {
		return false, err
	}

	if !g.dims.ContainsCell(pos.Step(dir)) {
		return false, nil
	}
	return !g.tiles[i].Blocked(dir), nil
}

// Clone returns a deep copy of the grid.
func (g *MapGrid) Clone() *MapGrid {
	return &MapGrid{dims: g.dims, tiles: g.Tiles()}
}

// Equal returns true if both grids have the same dimensions and flags.
func (g *MapGrid) Equal(other *MapGrid) bool {
	if other == nil || g.dims != other.dims || len(g.tiles) != len(other.tiles) {
		return false
	}
	for i, t := range g.tiles {
		if t != other.tiles[i] {
			return false
		}
	}
	return true
}
