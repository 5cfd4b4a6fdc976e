package mapview

import (
	"math"
	"testing"

	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/pointer"
)

var medium = config.ZoomPreset{Name: "medium", CellWidth: 4, CellHeight: 2}

func sampleMap(t *testing.T) *grid.Map {
	t.Helper()
	m, err := grid.New(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddWall(0, 1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.AddWall(1, 0, 1, 1); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPlain(t *testing.T) {
	got := Plain(sampleMap(t), medium, false)
	expected := "+---+   .\n" +
		"    |\n" +
		".   +   ."

	if got != expected {
		t.Errorf("Plain() =\n%s\nexpected\n%s", got, expected)
	}
}

func TestDrawHiddenWalls(t *testing.T) {
	m := sampleMap(t)
	doc := m.Snapshot().Document()

	// Hide the vertical segment while keeping it present.
	i, err := m.Dims().WallIndex(1, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	doc.WallGrid.Walls[i].Visible = false
	hidden, err := grid.Restore(doc, true)
	if err != nil {
		t.Fatal(err)
	}

	if got := Plain(hidden, medium, false); got != "+---+   .\n\n.   .   ." {
		t.Errorf("undiscovered wall drawn without ShowHidden:\n%s", got)
	}

	l := NewLayout(hidden.Dims(), medium, core.NewRect(0, 0, 9, 3))
	s := core.NewScreen(9, 3)
	Draw(s, hidden, l, Options{ShowHidden: true})

	if c := s.GetCell(4, 1); c.Rune != '|' || c.Color != core.ColorHiddenWall {
		t.Errorf("hidden wall cell = %+v, expected hidden-colored '|'", c)
	}
	// (1,1) touches a discovered wall too, so it keeps the wall color.
	if c := s.GetCell(4, 0); c.Rune != '+' || c.Color != core.ColorWall {
		t.Errorf("shared joint = %+v, expected wall-colored '+'", c)
	}
	if c := s.GetCell(4, 2); c.Color != core.ColorHiddenWall {
		t.Errorf("hidden-only joint = %+v, expected hidden color", c)
	}
}

func TestDrawOverlays(t *testing.T) {
	m := sampleMap(t)
	l := NewLayout(m.Dims(), medium, core.NewRect(0, 0, 9, 3))
	s := core.NewScreen(9, 3)

	party := grid.P(1, 0)
	anchor := grid.P(0, 0)
	cursor := grid.P(2, 1)
	erase := grid.E(1, 1, 0, 1)
	Draw(s, m, l, Options{Party: &party, Anchor: &anchor, Cursor: &cursor, Highlight: &erase})

	checks := []struct {
		name     string
		col, row int
		r        rune
		c        core.Color
	}{
		{"party", 6, 1, '@', core.ColorParty},
		{"anchor", 0, 2, 'o', core.ColorAnchor},
		{"cursor", 8, 0, '*', core.ColorCursor},
		{"highlight", 2, 0, '-', core.ColorErase},
	}
	for _, tc := range checks {
		if got := s.GetCell(tc.col, tc.row); got.Rune != tc.r || got.Color != tc.c {
			t.Errorf("%s at (%d, %d) = %+v, expected %q %s", tc.name, tc.col, tc.row, got, tc.r, tc.c)
		}
	}
}

func TestLayoutCentres(t *testing.T) {
	d, _ := grid.NewDims(4, 3)
	l := NewLayout(d, medium, core.NewRect(0, 0, 80, 22))

	if w, h := l.Size(); w != 17 || h != 7 {
		t.Fatalf("Size() = %dx%d, expected 17x7", w, h)
	}
	if l.OX != 31 || l.OY != 7 {
		t.Errorf("origin = (%d, %d), expected (31, 7)", l.OX, l.OY)
	}
	if col, row := l.LatticeToScreen(grid.P(0, 3)); col != 31 || row != 7 {
		t.Errorf("top-left lattice point at (%d, %d)", col, row)
	}
	if col, row := l.LatticeToScreen(grid.P(4, 0)); col != 47 || row != 13 {
		t.Errorf("bottom-right lattice point at (%d, %d)", col, row)
	}

	// Presets narrower than two characters are widened.
	tiny := NewLayout(d, config.ZoomPreset{Name: "tiny", CellWidth: 1, CellHeight: 0}, core.NewRect(0, 0, 0, 0))
	if tiny.CellW != 2 || tiny.CellH != 2 {
		t.Errorf("tiny preset cell = %dx%d", tiny.CellW, tiny.CellH)
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	res, err := pointer.NewResolver(pointer.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	const zoom = 16.0

	d, _ := grid.NewDims(5, 4)
	for _, p := range []config.ZoomPreset{
		{Name: "small", CellWidth: 2, CellHeight: 2},
		medium,
		{Name: "large", CellWidth: 6, CellHeight: 3},
	} {
		l := NewLayout(d, p, core.NewRect(3, 1, 60, 20))
		for y := 0; y <= d.Y; y++ {
			for x := 0; x <= d.X; x++ {
				col, row := l.LatticeToScreen(grid.P(x, y))
				wx, wy := l.World(res, zoom, col, row)

				snap, err := res.NearestLatticePoint(wx, wy, zoom)
				if err != nil {
					t.Fatal(err)
				}
				if snap.Point != grid.P(x, y) || math.Abs(snap.Residual) > 1e-9 {
					t.Errorf("%s: (%d,%d) came back as %+v", p.Name, x, y, snap)
				}
			}
		}

		for y := 0; y < d.Y; y++ {
			for x := 0; x < d.X; x++ {
				col, row := l.CellToScreen(grid.P(x, y))
				wx, wy := l.World(res, zoom, col, row)
				cell, err := res.NearestCell(wx, wy, zoom)
				if err != nil {
					t.Fatal(err)
				}
				if cell != grid.P(x, y) {
					t.Errorf("%s: centre of cell (%d,%d) resolved to %s", p.Name, x, y, cell)
				}
			}
		}
	}
}

func TestScreenDragCommitsWall(t *testing.T) {
	res, _ := pointer.NewResolver(pointer.DefaultConfig())
	const zoom = 16.0

	m, _ := grid.New(3, 3)
	l := NewLayout(m.Dims(), medium, core.NewRect(0, 0, 40, 20))
	tr := pointer.NewTracker(res)

	col, row := l.LatticeToScreen(grid.P(1, 1))
	wx, wy := l.World(res, zoom, col, row)
	if !tr.Press(wx, wy, zoom) {
		t.Fatal("press on a corner character did not start a drag")
	}
	// Walk the pointer one column at a time to the next corner.
	var commits []pointer.Commit
	for i := 1; i <= l.CellW; i++ {
		wx, wy := l.World(res, zoom, col+i, row)
		if c, ok := tr.Drag(wx, wy, zoom); ok {
			commits = append(commits, c)
		}
	}
	tr.Release()

	if len(commits) != 1 || !commits[0].Edge.Same(grid.E(1, 1, 2, 1)) {
		t.Fatalf("commits = %+v, expected one wall (1,1)-(2,1)", commits)
	}

	// Off-corner press one column to the side is rejected.
	wx, wy = l.World(res, zoom, col+1, row)
	if tr.Press(wx, wy, zoom) {
		t.Error("press beside a corner started a drag")
	}
}

func TestFollow(t *testing.T) {
	d, _ := grid.NewDims(40, 40)
	area := core.NewRect(0, 0, 80, 22)
	l := NewLayout(d, medium, area)

	for _, c := range []grid.Point{grid.P(0, 0), grid.P(39, 39), grid.P(20, 5)} {
		l.Follow(c, area)
		col, row := l.CellToScreen(c)
		if !area.Contains(col, row) {
			t.Errorf("cell %s at (%d, %d) is off screen after Follow", c, col, row)
		}
	}

	before := l
	l.Follow(grid.P(20, 5), area)
	if l != before {
		t.Error("Follow moved the view for a visible cell")
	}
}
