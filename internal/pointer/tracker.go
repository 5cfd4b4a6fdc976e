package pointer

import (
	"math"

	"github.com/vovakirdan/gridmap/internal/grid"
)

// Commit is a wall edit produced by a gesture.
type Commit struct {
	Edge    grid.Edge
	Present bool
}

// Tracker follows one pointer through press, drag and release.
//
// A drag starts only when the press lands near a corner. While dragging, a
// segment is committed once the pointer is roughly one cell from the anchor
// and again near a corner; the tracker then re-anchors on that corner so
// the next segment can be drawn without releasing.
type Tracker struct {
	res    Resolver
	active bool
	anchor grid.Point
	u, v   float64
}

// NewTracker returns an idle tracker.
func NewTracker(res Resolver) *Tracker {
	return &Tracker{res: res}
}

// Press starts a drag if the position is close enough to a corner.
func (t *Tracker) Press(wx, wy, zoom float64) bool {
	s, err := t.res.NearestLatticePoint(wx, wy, zoom)
	if err != nil || !s.NearCorner(t.res.cfg.StartTolerance) {
		t.active = false
		return false
	}
	t.active = true
	t.anchor = s.Point
	t.u, t.v = float64(s.Point.X)+s.DX, float64(s.Point.Y)+s.DY
	return true
}

// Drag updates the pointer. It returns a commit when the drag has reached
// a neighbouring corner.
func (t *Tracker) Drag(wx, wy, zoom float64) (Commit, bool) {
	if !t.active {
		return Commit{}, false
	}
	u, v, err := t.res.Lattice(wx, wy, zoom)
	if err != nil {
		return Commit{}, false
	}
	t.u, t.v = u, v

	dist := math.Hypot(u-float64(t.anchor.X), v-float64(t.anchor.Y))
	if dist <= t.res.cfg.DragMin || dist >= t.res.cfg.DragMax {
		return Commit{}, false
	}

	s := snapAt(u, v)
	if !s.NearCorner(t.res.cfg.CommitTolerance) || s.Point.Manhattan(t.anchor) != 1 {
		return Commit{}, false
	}

	c := Commit{Edge: grid.Edge{A: t.anchor, B: s.Point}, Present: true}
	t.anchor = s.Point
	return c, true
}

// Release ends the drag.
func (t *Tracker) Release() {
	t.active = false
}

// Erase resolves a remove gesture at the position.
func (t *Tracker) Erase(wx, wy, zoom float64) (Commit, bool) {
	e, ok, err := t.res.NearestEdge(wx, wy, zoom)
	if err != nil || !ok {
		return Commit{}, false
	}
	return Commit{Edge: e, Present: false}, true
}

// Active reports whether a drag is in progress.
func (t *Tracker) Active() bool {
	return t.active
}

// Anchor returns the current drag origin.
func (t *Tracker) Anchor() (grid.Point, bool) {
	return t.anchor, t.active
}

// Cursor returns the last pointer position in lattice space, for drawing
// the pending line.
func (t *Tracker) Cursor() (u, v float64) {
	return t.u, t.v
}
