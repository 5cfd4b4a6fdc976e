package mapview

import (
	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/grid"
)

const (
	runeCorner = '.'
	runeJoint  = '+'
	runeHWall  = '-'
	runeVWall  = '|'
	runeParty  = '@'
	runeAnchor = 'o'
	runeCursor = '*'
)

// Options controls what Draw puts on top of the walls.
type Options struct {
	// ShowHidden draws walls the party has not discovered yet.
	ShowHidden bool
	Party      *grid.Point // explorer cell
	Anchor     *grid.Point // drag origin
	Cursor     *grid.Point // lattice point under the pointer
	Highlight  *grid.Edge  // segment about to be erased
}

// Draw renders m into dst using layout l. Only present walls are drawn;
// undiscovered ones need ShowHidden.
func Draw(dst *core.Screen, m *grid.Map, l Layout, opts Options) {
	joints := make(map[grid.Point]core.Color)

	for e, w := range m.Walls().All() {
		if !w.Present || (!w.Visible && !opts.ShowHidden) {
			continue
		}
		c := core.ColorWall
		if !w.Visible {
			c = core.ColorHiddenWall
		}
		drawSegment(dst, l, e, c)
		for _, p := range []grid.Point{e.A, e.B} {
			if joints[p] != core.ColorWall {
				joints[p] = c
			}
		}
	}

	for y := 0; y <= l.Dims.Y; y++ {
		for x := 0; x <= l.Dims.X; x++ {
			p := grid.P(x, y)
			col, row := l.LatticeToScreen(p)
			if c, ok := joints[p]; ok {
				dst.SetColored(col, row, runeJoint, c)
				continue
			}
			dst.SetColored(col, row, runeCorner, core.ColorCorner)
		}
	}

	if opts.Highlight != nil {
		drawSegment(dst, l, opts.Highlight.Normalize(), core.ColorErase)
	}
	if opts.Party != nil {
		col, row := l.CellToScreen(*opts.Party)
		dst.SetColored(col, row, runeParty, core.ColorParty)
	}
	if opts.Cursor != nil {
		col, row := l.LatticeToScreen(*opts.Cursor)
		dst.SetColored(col, row, runeCursor, core.ColorCursor)
	}
	if opts.Anchor != nil {
		col, row := l.LatticeToScreen(*opts.Anchor)
		dst.SetColored(col, row, runeAnchor, core.ColorAnchor)
	}
}

// drawSegment fills the characters strictly between the two lattice points of e.
func drawSegment(dst *core.Screen, l Layout, e grid.Edge, c core.Color) {
	e = e.Normalize()
	if e.Orientation() == grid.Horizontal {
		col, row := l.LatticeToScreen(e.A)
		dst.DrawHLine(col+1, row, l.CellW-1, runeHWall, c)
		return
	}
	// The upper end is B after normalizing; rows grow downwards.
	col, row := l.LatticeToScreen(e.B)
	dst.DrawVLine(col, row+1, l.CellH-1, runeVWall, c)
}

// Plain renders the whole map as text at the preset's scale, for printing.
func Plain(m *grid.Map, p config.ZoomPreset, showHidden bool) string {
	l := NewLayout(m.Dims(), p, core.NewRect(0, 0, 0, 0))
	w, h := l.Size()
	s := core.NewScreen(w, h)
	Draw(s, m, l, Options{ShowHidden: showHidden})
	return s.Trimmed()
}
