package grid

import (
	"errors"
	"testing"
)

func mustMap(t *testing.T, w, h int) *Map {
	t.Helper()
	m, err := New(w, h)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", w, h, err)
	}
	return m
}

func TestGridIndex(t *testing.T) {
	g, err := NewMapGrid(4, 4)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		edge     Edge
		expected [2]int
	}{
		{"interior horizontal", E(1, 1, 2, 1), [2]int{1, 5}},
		{"reversed horizontal", E(2, 1, 1, 1), [2]int{1, 5}},
		{"bottom boundary", E(0, 0, 1, 0), [2]int{NoCell, 0}},
		{"top boundary", E(0, 4, 1, 4), [2]int{12, NoCell}},
		{"interior vertical", E(2, 1, 2, 2), [2]int{5, 6}},
		{"reversed vertical", E(2, 2, 2, 1), [2]int{5, 6}},
		{"left boundary", E(0, 0, 0, 1), [2]int{NoCell, 0}},
		{"right boundary", E(4, 3, 4, 4), [2]int{15, NoCell}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.GridIndex(tc.edge.A.X, tc.edge.A.Y, tc.edge.B.X, tc.edge.B.Y)
			if err != nil {
				t.Fatalf("GridIndex() unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("GridIndex() = %v, expected %v", got, tc.expected)
			}
		})
	}

	if _, err := g.GridIndex(0, 0, 2, 0); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("GridIndex distance two: error = %v, want ErrInvalidLine", err)
	}
	if _, err := g.GridIndex(4, 4, 5, 4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GridIndex outside: error = %v, want ErrOutOfBounds", err)
	}
}

func TestHorizontalWallBlocksVerticalMoves(t *testing.T) {
	m := mustMap(t, 4, 4)

	if err := m.AddWall(1, 1, 2, 1); err != nil {
		t.Fatalf("AddWall: %v", err)
	}

	below, _ := m.Cells().Tile(1, 0)
	above, _ := m.Cells().Tile(1, 1)
	if !below.Walls[slotUp] || !above.Walls[slotDown] {
		t.Errorf("flags: below=%v above=%v, want UP on below and DOWN on above", below.Walls, above.Walls)
	}
	if w, _ := m.Walls().Wall(1, 1, 2, 1); !w.Present || !w.Visible {
		t.Errorf("wall slot = %+v, want present and visible", w)
	}

	assertMove(t, m, P(1, 0), Up, false)
	assertMove(t, m, P(1, 1), Down, false)
	assertMove(t, m, P(1, 1), Right, true)
	assertMove(t, m, P(0, 1), Right, true)
}

func TestVerticalWallBlocksHorizontalMoves(t *testing.T) {
	m := mustMap(t, 4, 4)

	if err := m.AddWall(2, 1, 2, 2); err != nil {
		t.Fatalf("AddWall: %v", err)
	}

	left, _ := m.Cells().Tile(1, 1)
	right, _ := m.Cells().Tile(2, 1)
	if !left.Blocked(Right) || !right.Blocked(Left) {
		t.Errorf("flags: left=%v right=%v, want RIGHT on left and LEFT on right", left.Walls, right.Walls)
	}

	assertMove(t, m, P(1, 1), Right, false)
	assertMove(t, m, P(2, 1), Left, false)
	assertMove(t, m, P(1, 1), Up, true)
	assertMove(t, m, P(1, 2), Right, true)
}

func assertMove(t *testing.T, m *Map, pos Point, dir Direction, expected bool) {
	t.Helper()
	ok, err := m.ValidateMove(pos, dir)
	if err != nil {
		t.Fatalf("ValidateMove(%s, %s): %v", pos, dir, err)
	}
	if ok != expected {
		t.Errorf("ValidateMove(%s, %s) = %v, expected %v", pos, dir, ok, expected)
	}
}

func TestBoundaryBlocksOnOpenGrid(t *testing.T) {
	single := mustMap(t, 1, 1)
	for _, d := range Directions() {
		assertMove(t, single, P(0, 0), d, false)
	}

	m := mustMap(t, 3, 2)
	for x := 0; x < 3; x++ {
		assertMove(t, m, P(x, 0), Down, false)
		assertMove(t, m, P(x, 1), Up, false)
	}
	for y := 0; y < 2; y++ {
		assertMove(t, m, P(0, y), Left, false)
		assertMove(t, m, P(2, y), Right, false)
	}
	assertMove(t, m, P(1, 0), Up, true)
}

func TestValidateMoveErrors(t *testing.T) {
	m := mustMap(t, 2, 2)

	for _, code := range []Direction{0, 1, 5, 9, -2} {
		if _, err := m.ValidateMove(P(0, 0), code); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("ValidateMove with code %d: error = %v, want ErrInvalidDirection", code, err)
		}
	}
	if _, err := m.ValidateMove(P(2, 0), Left); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ValidateMove off-grid position: error = %v, want ErrOutOfBounds", err)
	}
}

func TestSetEdgeAddRemoveInverse(t *testing.T) {
	m := mustMap(t, 3, 3)

	for _, e := range allEdges(m.Dims()) {
		changed, err := m.SetEdge(e, true)
		if err != nil || !changed {
			t.Fatalf("SetEdge(%s, true) = (%v, %v), want change", e, changed, err)
		}
		afterAdd := m.Clone()

		changed, err = m.SetEdge(e, true)
		if err != nil || changed {
			t.Fatalf("second SetEdge(%s, true) = (%v, %v), want no change", e, changed, err)
		}
		if !m.Equal(afterAdd) {
			t.Fatalf("adding %s twice differs from adding it once", e)
		}

		if present, _ := m.HasWall(e); !present {
			t.Fatalf("HasWall(%s) = false after add", e)
		}
		checkEdgeFlags(t, m, e, true)

		changed, err = m.SetEdge(e, false)
		if err != nil || !changed {
			t.Fatalf("SetEdge(%s, false) = (%v, %v), want change", e, changed, err)
		}
		if present, _ := m.HasWall(e); present {
			t.Fatalf("HasWall(%s) = true after remove", e)
		}
		checkEdgeFlags(t, m, e, false)
	}

	if n := m.Walls().PresentCount(); n != 0 {
		t.Errorf("PresentCount() = %d after removing every wall", n)
	}
	if err := m.CheckConsistency(); err != nil {
		t.Errorf("CheckConsistency() = %v", err)
	}
}

// checkEdgeFlags asserts the cell flags facing e agree with present.
func checkEdgeFlags(t *testing.T, m *Map, e Edge, present bool) {
	t.Helper()
	cells, err := m.Cells().GridIndex(e.A.X, e.A.Y, e.B.X, e.B.Y)
	if err != nil {
		t.Fatal(err)
	}
	first, second := Up, Down
	if e.Orientation() == Vertical {
		first, second = Right, Left
	}
	tiles := m.Cells().Tiles()
	if c := cells[0]; c != NoCell && tiles[c].Blocked(first) != present {
		t.Errorf("%s: cell %d %s flag = %v, want %v", e, c, first, !present, present)
	}
	if c := cells[1]; c != NoCell && tiles[c].Blocked(second) != present {
		t.Errorf("%s: cell %d %s flag = %v, want %v", e, c, second, !present, present)
	}
}

func TestSetEdgeInvalidIsNoOp(t *testing.T) {
	m := mustMap(t, 4, 4)
	if err := m.AddWall(1, 1, 2, 1); err != nil {
		t.Fatal(err)
	}
	before := m.Clone()

	tests := []struct {
		name     string
		edge     Edge
		expected error
	}{
		{"distance two", E(0, 0, 2, 0), ErrInvalidLine},
		{"diagonal", E(1, 1, 2, 2), ErrInvalidLine},
		{"outside", E(4, 4, 5, 4), ErrOutOfBounds},
		{"negative", E(0, -1, 0, 0), ErrOutOfBounds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, present := range []bool{true, false} {
				changed, err := m.SetEdge(tc.edge, present)
				if !errors.Is(err, tc.expected) {
					t.Errorf("SetEdge(%s, %v) error = %v, expected %v", tc.edge, present, err, tc.expected)
				}
				if changed {
					t.Errorf("SetEdge(%s, %v) reported a change", tc.edge, present)
				}
			}
			if !m.Equal(before) {
				t.Error("map changed after invalid edit")
			}
		})
	}
}

func TestRemoveKeepsSegmentVisible(t *testing.T) {
	m := mustMap(t, 2, 2)
	e := E(1, 0, 1, 1)

	if _, err := m.SetEdge(e, false); err != nil {
		t.Fatal(err)
	}
	w, _ := m.Walls().Wall(1, 0, 1, 1)
	if w.Present || !w.Visible {
		t.Errorf("removed segment = %+v, want visible and absent", w)
	}
}

func TestReveal(t *testing.T) {
	m := mustMap(t, 3, 3)
	if err := m.AddWall(1, 1, 1, 2); err != nil {
		t.Fatal(err)
	}

	// A fresh map starts hidden apart from the edited segment.
	visible := 0
	for _, w := range m.Walls().All() {
		if w.Visible {
			visible++
		}
	}
	if visible != 1 {
		t.Fatalf("visible segments before reveal = %d, want 1", visible)
	}

	if err := m.Reveal(P(1, 1)); err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	for _, d := range Directions() {
		e, _ := m.Dims().CellEdge(P(1, 1), d)
		i, _ := m.Dims().EdgeIndex(e)
		if !m.Walls().At(i).Visible {
			t.Errorf("side %s of (1,1) not visible after reveal", d)
		}
	}
	if n := m.Walls().PresentCount(); n != 1 {
		t.Errorf("Reveal changed presence: %d walls", n)
	}
	if err := m.Reveal(P(3, 0)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Reveal outside: error = %v, want ErrOutOfBounds", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := mustMap(t, 3, 3)
	c := m.Clone()

	if err := m.AddWall(0, 1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if m.Equal(c) {
		t.Error("clone tracked a later edit")
	}
	if c.Walls().PresentCount() != 0 {
		t.Error("clone gained a wall")
	}
}

func TestCheckConsistencyDetectsDrift(t *testing.T) {
	m := mustMap(t, 3, 3)
	if err := m.AddWall(1, 1, 2, 1); err != nil {
		t.Fatal(err)
	}

	// Desync the cell side only, the way a one-sided write would.
	if err := m.cells.removeWalls(1, 1, 2, 1); err != nil {
		t.Fatal(err)
	}

	err := m.CheckConsistency()
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("CheckConsistency() = %v, want ErrInconsistent", err)
	}
	if !errors.Is(err, ErrCorruptMapFile) {
		t.Errorf("inconsistency should also match ErrCorruptMapFile")
	}
	if code, ok := IsCorrupt(err); !ok || code != CodeInconsistent {
		t.Errorf("IsCorrupt() = (%q, %v)", code, ok)
	}
}
