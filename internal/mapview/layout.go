// Package mapview draws a grid.Map into a core.Screen and converts between
// screen positions and the pointer's world coordinates.
package mapview

import (
	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/pointer"
)

// Layout places the lattice of a map on the screen. Lattice point (x, y)
// sits at column OX + x*CellW and row OY + (dim_y-y)*CellH, so y grows up
// on screen as it does in the map.
type Layout struct {
	Dims   grid.Dims
	CellW  int
	CellH  int
	OX, OY int
}

// NewLayout centres a map of dims d inside area at the preset's scale.
func NewLayout(d grid.Dims, p config.ZoomPreset, area core.Rect) Layout {
	l := Layout{Dims: d, CellW: core.Max(p.CellWidth, 2), CellH: core.Max(p.CellHeight, 2)}
	w, h := l.Size()
	l.OX, l.OY = area.Center(w, h)
	return l
}

// Size returns the number of columns and rows the whole map needs.
func (l Layout) Size() (w, h int) {
	return l.Dims.X*l.CellW + 1, l.Dims.Y*l.CellH + 1
}

// LatticeToScreen returns the screen position of a lattice point.
func (l Layout) LatticeToScreen(p grid.Point) (col, row int) {
	return l.OX + p.X*l.CellW, l.OY + (l.Dims.Y-p.Y)*l.CellH
}

// CellToScreen returns the screen position at the middle of a cell.
func (l Layout) CellToScreen(c grid.Point) (col, row int) {
	col, row = l.LatticeToScreen(grid.P(c.X, c.Y+1))
	return col + l.CellW/2, row + l.CellH/2
}

// ScreenToLattice converts a screen position to continuous lattice space.
func (l Layout) ScreenToLattice(col, row int) (u, v float64) {
	u = float64(col-l.OX) / float64(l.CellW)
	v = float64(l.Dims.Y) - float64(row-l.OY)/float64(l.CellH)
	return u, v
}

// World converts a screen position to the world coordinates res expects
// at the given zoom.
func (l Layout) World(res pointer.Resolver, zoom float64, col, row int) (wx, wy float64) {
	u, v := l.ScreenToLattice(col, row)
	return res.World(u, v, zoom)
}

// Follow scrolls the layout so cell c is drawn inside area. It is a no-op
// when c is already on screen.
func (l *Layout) Follow(c grid.Point, area core.Rect) {
	col, row := l.CellToScreen(c)
	if col < area.X || col >= area.Right() {
		l.OX += area.X + area.W/2 - col
	}
	if row < area.Y || row >= area.Bottom() {
		l.OY += area.Y + area.H/2 - row
	}
}
