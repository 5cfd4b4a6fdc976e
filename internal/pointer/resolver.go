// Package pointer resolves continuous pointer positions to the map lattice.
//
// World coordinates are whatever unit the host uses (pixels, terminal
// columns); zoom is world units per cell. Positions are first mapped into
// lattice space, u = wx/zoom + OriginShift, where integer values of u are
// grid lines. The Resolver is stateless; Tracker layers the drag gesture on top.
package pointer

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/gridmap/internal/grid"
)

// ErrInvalidZoom is returned for a zoom that is not a positive finite number.
var ErrInvalidZoom = errors.New("pointer: zoom must be positive")

// Config holds the gesture tuning constants, all in cell units.
type Config struct {
	// OriginShift moves world origin onto the lattice. 0.5 means world (0,0)
	// is the centre of cell (0,0).
	OriginShift float64 `yaml:"origin_shift"`
	// StartTolerance is how close to a corner a press must land to start a drag.
	StartTolerance float64 `yaml:"start_tolerance"`
	// CommitTolerance is how close to a corner the pointer must be to commit.
	CommitTolerance float64 `yaml:"commit_tolerance"`
	// DragMin and DragMax bound the drag length that may commit a segment.
	DragMin float64 `yaml:"drag_min"`
	DragMax float64 `yaml:"drag_max"`
	// EraseBand is how close to a grid line an erase must land.
	EraseBand float64 `yaml:"erase_band"`
	// EraseTieMargin is the distance difference under which two candidate
	// lines count as a tie.
	EraseTieMargin float64 `yaml:"erase_tie_margin"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		OriginShift:     0.5,
		StartTolerance:  0.2,
		CommitTolerance: 0.1,
		DragMin:         0.9,
		DragMax:         1.2,
		EraseBand:       0.2,
		EraseTieMargin:  0.05,
	}
}

// Validate checks that the constants describe a usable gesture.
func (c Config) Validate() error {
	inHalf := func(name string, v float64) error {
		if !(v > 0 && v <= 0.5) {
			return fmt.Errorf("pointer: %s must be in (0, 0.5], got %g", name, v)
		}
		return nil
	}
	if err := inHalf("start_tolerance", c.StartTolerance); err != nil {
		return err
	}
	if err := inHalf("commit_tolerance", c.CommitTolerance); err != nil {
		return err
	}
	if err := inHalf("erase_band", c.EraseBand); err != nil {
		return err
	}
	if c.EraseTieMargin < 0 || c.EraseTieMargin >= c.EraseBand {
		return fmt.Errorf("pointer: erase_tie_margin must be in [0, erase_band), got %g", c.EraseTieMargin)
	}
	if !(c.DragMin > 0 && c.DragMin < 1 && c.DragMax > 1 && c.DragMax < math.Sqrt2) {
		return fmt.Errorf("pointer: drag band [%g, %g] must straddle one cell and stay below a diagonal",
			c.DragMin, c.DragMax)
	}
	if math.IsNaN(c.OriginShift) || math.IsInf(c.OriginShift, 0) {
		return fmt.Errorf("pointer: origin_shift must be finite")
	}
	return nil
}

// Snap is the nearest lattice point to a position plus the offset from it.
type Snap struct {
	Point grid.Point
	// DX and DY are the signed offsets in cell units, each in [-0.5, 0.5].
	DX float64
	DY float64
	// Residual is |DX| + |DY|.
	Residual float64
}

// NearCorner reports whether both offsets are below tol.
func (s Snap) NearCorner(tol float64) bool {
	return math.Abs(s.DX) < tol && math.Abs(s.DY) < tol
}

// Resolver maps world positions to cells, lattice points and edges.
type Resolver struct {
	cfg Config
}

// NewResolver returns a resolver for cfg.
func NewResolver(cfg Config) (Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return Resolver{}, err
	}
	return Resolver{cfg: cfg}, nil
}

// Config returns the resolver's tuning.
func (r Resolver) Config() Config {
	return r.cfg
}

// Lattice converts a world position to lattice space.
func (r Resolver) Lattice(wx, wy, zoom float64) (u, v float64, err error) {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return 0, 0, fmt.Errorf("%w: %g", ErrInvalidZoom, zoom)
	}
	return wx/zoom + r.cfg.OriginShift, wy/zoom + r.cfg.OriginShift, nil
}

// World is the inverse of Lattice.
func (r Resolver) World(u, v, zoom float64) (wx, wy float64) {
	return (u - r.cfg.OriginShift) * zoom, (v - r.cfg.OriginShift) * zoom
}

// NearestCell returns the cell containing the position. The cell may lie
// outside any particular map.
func (r Resolver) NearestCell(wx, wy, zoom float64) (grid.Point, error) {
	u, v, err := r.Lattice(wx, wy, zoom)
	if err != nil {
		return grid.Point{}, err
	}
	return grid.P(int(math.Floor(u)), int(math.Floor(v))), nil
}

// NearestLatticePoint returns the closest grid-line intersection.
func (r Resolver) NearestLatticePoint(wx, wy, zoom float64) (Snap, error) {
	u, v, err := r.Lattice(wx, wy, zoom)
	if err != nil {
		return Snap{}, err
	}
	return snapAt(u, v), nil
}

func snapAt(u, v float64) Snap {
	px, py := math.Round(u), math.Round(v)
	dx, dy := u-px, v-py
	return Snap{
		Point:    grid.P(int(px), int(py)),
		DX:       dx,
		DY:       dy,
		Residual: math.Abs(dx) + math.Abs(dy),
	}
}

// NearestEdge returns the unit segment under the position for erasing.
// ok is false when the position is near no line or equally near two.
func (r Resolver) NearestEdge(wx, wy, zoom float64) (e grid.Edge, ok bool, err error) {
	u, v, err := r.Lattice(wx, wy, zoom)
	if err != nil {
		return grid.Edge{}, false, err
	}

	// Distance to the nearest vertical line (integer u) and horizontal line.
	du := math.Abs(u - math.Round(u))
	dv := math.Abs(v - math.Round(v))
	nearV := du < r.cfg.EraseBand
	nearH := dv < r.cfg.EraseBand

	if nearV && nearH {
		if math.Abs(du-dv) <= r.cfg.EraseTieMargin {
			return grid.Edge{}, false, nil
		}
		nearV, nearH = du < dv, dv < du
	}

	switch {
	case nearV:
		x, y := int(math.Round(u)), int(math.Floor(v))
		return grid.E(x, y, x, y+1), true, nil
	case nearH:
		x, y := int(math.Floor(u)), int(math.Round(v))
		return grid.E(x, y, x+1, y), true, nil
	}
	return grid.Edge{}, false, nil
}
