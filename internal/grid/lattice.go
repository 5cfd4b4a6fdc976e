// Package grid provides the dual-grid map model: a cell grid of directional
// passability flags (MapGrid) and a linear array of wall segments (WallGrid)
// describing the same edges. Map owns one of each and is the only write path,
// so the two encodings never disagree.
//
// Coordinates: cells are (x, y) in [0,dimX) x [0,dimY); lattice points (grid
// line intersections) are (x, y) in [0,dimX] x [0,dimY]. Y grows upward, so
// cell (x, y) is the unit square whose lower-left corner is lattice point (x, y).
package grid

import (
	"fmt"
	"math"
)

// Point is an integer coordinate naming either a cell or a lattice point.
type Point struct {
	X int
	Y int
}

// P is a convenience constructor for Point.
func P(x, y int) Point {
	return Point{X: x, Y: y}
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns the point offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbouring point in direction d.
func (p Point) Step(d Direction) Point {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// Manhattan returns the Manhattan distance to another point.
func (p Point) Manhattan(other Point) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Orientation tells horizontal segments from vertical ones.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns the name of the orientation.
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Edge is a segment between two lattice points. Only unit-length,
// axis-aligned edges address a wall; see Valid.
type Edge struct {
	A Point
	B Point
}

// E builds the edge (x1,y1)-(x2,y2).
func E(x1, y1, x2, y2 int) Edge {
	return Edge{A: P(x1, y1), B: P(x2, y2)}
}

// Valid reports whether the endpoints are unit-adjacent.
func (e Edge) Valid() bool {
	return e.A.Manhattan(e.B) == 1
}

// Orientation returns Horizontal when the endpoints share a Y coordinate.
func (e Edge) Orientation() Orientation {
	if e.A.Y == e.B.Y {
		return Horizontal
	}
	return Vertical
}

// Anchor returns the addressing endpoint: the left end of a horizontal edge
// or the lower end of a vertical edge.
func (e Edge) Anchor() Point {
	if e.B.X < e.A.X || e.B.Y < e.A.Y {
		return e.B
	}
	return e.A
}

// Normalize returns the same edge with its anchor first.
func (e Edge) Normalize() Edge {
	a := e.Anchor()
	if a == e.A {
		return e
	}
	return Edge{A: e.B, B: e.A}
}

// Same reports whether both edges join the same pair of points.
func (e Edge) Same(other Edge) bool {
	return e.Normalize() == other.Normalize()
}

// String returns a string representation of the edge.
func (e Edge) String() string {
	return e.A.String() + "-" + e.B.String()
}

// Dims holds grid dimensions in cells. All lattice arithmetic hangs off it.
//
// Wall slots are packed row by row with stride 2*X+1: row y starts with the X
// horizontal segments lying on lattice row y, followed by the X+1 vertical
// segments rising from row y to y+1. The top lattice row (y == Y) carries only
// its horizontal band, so the total is Y*(2X+1) + X = (X+1)*Y + (Y+1)*X.
type Dims struct {
	X int
	Y int
}

// NewDims validates and returns dimensions for a width x height grid.
func NewDims(width, height int) (Dims, error) {
	if width <= 0 || height <= 0 {
		return Dims{}, fmt.Errorf("%w: %dx%d", ErrInvalidDims, width, height)
	}
	// The wall count 2XY + X + Y is the largest quantity derived from the dims.
	if height > (math.MaxInt-1)/2 || width > (math.MaxInt-height)/(2*height+1) {
		return Dims{}, fmt.Errorf("%w: %dx%d overflows", ErrInvalidDims, width, height)
	}
	return Dims{X: width, Y: height}, nil
}

// CellCount returns the number of cells.
func (d Dims) CellCount() int {
	return d.X * d.Y
}

// WallCount returns the number of unit segments in the lattice.
func (d Dims) WallCount() int {
	return (d.X+1)*d.Y + (d.Y+1)*d.X
}

func (d Dims) stride() int {
	return 2*d.X + 1
}

// ContainsCell reports whether p is a cell coordinate.
func (d Dims) ContainsCell(p Point) bool {
	return p.X >= 0 && p.X < d.X && p.Y >= 0 && p.Y < d.Y
}

// ContainsLattice reports whether p is a lattice point; the outer boundary is included.
func (d Dims) ContainsLattice(p Point) bool {
	return p.X >= 0 && p.X <= d.X && p.Y >= 0 && p.Y <= d.Y
}

// CellIndex converts a cell coordinate to its row-major index.
func (d Dims) CellIndex(x, y int) (int, error) {
	if !d.ContainsCell(P(x, y)) {
		return 0, fmt.Errorf("%w: cell %s", ErrOutOfBounds, P(x, y))
	}
	return y*d.X + x, nil
}

// WallIndex converts the segment (x1,y1)-(x2,y2) to its slot. Endpoint order
// does not matter.
func (d Dims) WallIndex(x1, y1, x2, y2 int) (int, error) {
	return d.EdgeIndex(E(x1, y1, x2, y2))
}

// EdgeIndex is WallIndex for an Edge value.
func (d Dims) EdgeIndex(e Edge) (int, error) {
	if !e.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidLine, e)
	}
	if !d.ContainsLattice(e.A) || !d.ContainsLattice(e.B) {
		return 0, fmt.Errorf("%w: edge %s", ErrOutOfBounds, e)
	}

	a := e.Anchor()
	if e.Orientation() == Horizontal {
		return a.Y*d.stride() + a.X, nil
	}
	return a.Y*d.stride() + d.X + a.X, nil
}

// EdgeAt is the inverse of EdgeIndex. The returned edge is normalized.
func (d Dims) EdgeAt(index int) (Edge, error) {
	if index < 0 || index >= d.WallCount() {
		return Edge{}, fmt.Errorf("%w: wall slot %d", ErrOutOfBounds, index)
	}
	row, off := index/d.stride(), index%d.stride()
	if off < d.X {
		return E(off, row, off+1, row), nil
	}
	x := off - d.X
	return E(x, row, x, row+1), nil
}

// CellEdge returns the boundary segment of cell c on side dir.
func (d Dims) CellEdge(c Point, dir Direction) (Edge, error) {
	if !d.ContainsCell(c) {
		return Edge{}, fmt.Errorf("%w: cell %s", ErrOutOfBounds, c)
	}
	switch dir {
	case Down:
		return E(c.X, c.Y, c.X+1, c.Y), nil
	case Up:
		return E(c.X, c.Y+1, c.X+1, c.Y+1), nil
	case Left:
		return E(c.X, c.Y, c.X, c.Y+1), nil
	case Right:
		return E(c.X+1, c.Y, c.X+1, c.Y+1), nil
	}
	return Edge{}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
}
