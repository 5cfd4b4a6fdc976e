package grid

import "iter"

// Wall is one segment slot. Present and Visible are independent: a wall can
// exist without having been revealed yet.
type Wall struct {
	Visible bool `json:"vis" yaml:"vis"`
	Present bool `json:"pres" yaml:"pres"`
}

// WallGrid is the per-segment view of the map, one slot per unit edge of the
// (dimX+1) x (dimY+1) lattice. See Dims for the packing.
type WallGrid struct {
	dims  Dims
	walls []Wall
}

// NewWallGrid creates a width x height wall grid with no walls.
func NewWallGrid(width, height int) (*WallGrid, error) {
	dims, err := NewDims(width, height)
	if err != nil {
		return nil, err
	}
	return &WallGrid{
		dims:  dims,
		walls: make([]Wall, dims.WallCount()),
	}, nil
}

// Dims returns the grid dimensions.
func (g *WallGrid) Dims() Dims {
	return g.dims
}

// Len returns the number of segment slots.
func (g *WallGrid) Len() int {
	return len(g.walls)
}

// WallIndex resolves the slot of segment (x1,y1)-(x2,y2).
func (g *WallGrid) WallIndex(x1, y1, x2, y2 int) (int, error) {
	return g.dims.WallIndex(x1, y1, x2, y2)
}

// Wall returns the segment (x1,y1)-(x2,y2).
func (g *WallGrid) Wall(x1, y1, x2, y2 int) (Wall, error) {
	i, err := g.dims.WallIndex(x1, y1, x2, y2)
	if err != nil {
		return Wall{}, err
	}
	return g.walls[i], nil
}

// At returns the wall in slot i; out-of-range slots read as empty.
func (g *WallGrid) At(i int) Wall {
	if i < 0 || i >= len(g.walls) {
		return Wall{}
	}
	return g.walls[i]
}

// Walls returns a copy of the flat segment sequence.
func (g *WallGrid) Walls() []Wall {
	out := make([]Wall, len(g.walls))
	copy(out, g.walls)
	return out
}

// All iterates every segment in slot order.
func (g *WallGrid) All() iter.Seq2[Edge, Wall] {
	return func(yield func(Edge, Wall) bool) {
		for i, w := range g.walls {
			e, err := g.dims.EdgeAt(i)
			if err != nil {
				return
			}
			if !yield(e, w) {
				return
			}
		}
	}
}

// PresentCount returns how many segments hold a wall.
func (g *WallGrid) PresentCount() int {
	n := 0
	for _, w := range g.walls {
		if w.Present {
			n++
		}
	}
	return n
}

func (g *WallGrid) addWall(x1, y1, x2, y2 int) error {
	i, err := g.dims.WallIndex(x1, y1, x2, y2)
	if err != nil {
		return err
	}
	g.walls[i] = Wall{Visible: true, Present: true}
	return nil
}

// removeWall keeps the segment visible so the editor still shows the
// cleared slot as known-open.
func (g *WallGrid) removeWall(x1, y1, x2, y2 int) error {
	i, err := g.dims.WallIndex(x1, y1, x2, y2)
	if err != nil {
		return err
	}
	g.walls[i] = Wall{Visible: true, Present: false}
	return nil
}

func (g *WallGrid) reveal(i int) {
	g.walls[i].Visible = true
}

// Clone returns a deep copy of the grid.
func (g *WallGrid) Clone() *WallGrid {
	return &WallGrid{dims: g.dims, walls: g.Walls()}
}

// Equal returns true if both grids have the same dimensions and segments.
func (g *WallGrid) Equal(other *WallGrid) bool {
	if other == nil || g.dims != other.dims || len(g.walls) != len(other.walls) {
		return false
	}
	for i, w := range g.walls {
		if w != other.walls[i] {
			return false
		}
	}
	return true
}
