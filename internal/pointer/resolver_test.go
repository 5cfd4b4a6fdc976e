package pointer

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/gridmap/internal/grid"
)

const zoom = 16.0

func newResolver(t *testing.T) Resolver {
	t.Helper()
	r, err := NewResolver(DefaultConfig())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

// world converts a lattice-space position back to world coordinates.
func world(r Resolver, u, v float64) (float64, float64) {
	return r.World(u, v, zoom)
}

func TestNearestCell(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name     string
		u, v     float64
		expected grid.Point
	}{
		{"cell centre", 0.5, 0.5, grid.P(0, 0)},
		{"just inside", 2.99, 1.01, grid.P(2, 1)},
		{"on lower-left corner", 3, 4, grid.P(3, 4)},
		{"negative side", -0.25, 0.5, grid.P(-1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wx, wy := world(r, tc.u, tc.v)
			got, err := r.NearestCell(wx, wy, zoom)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.expected {
				t.Errorf("NearestCell(%g, %g) = %s, expected %s", wx, wy, got, tc.expected)
			}
		})
	}
}

func TestNearestCellWithoutShiftIsFloorDivide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OriginShift = 0
	r, err := NewResolver(cfg)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range [][2]float64{{0, 0}, {15.9, 16}, {-1, 35}, {-16, -16.5}} {
		got, err := r.NearestCell(p[0], p[1], zoom)
		if err != nil {
			t.Fatal(err)
		}
		want := grid.P(int(math.Floor(p[0]/zoom)), int(math.Floor(p[1]/zoom)))
		if got != want {
			t.Errorf("NearestCell(%v) = %s, want %s", p, got, want)
		}
	}
}

func TestNearestLatticePoint(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name     string
		u, v     float64
		point    grid.Point
		residual float64
		near     bool
	}{
		{"exact corner", 2, 3, grid.P(2, 3), 0, true},
		{"close to corner", 1.0625, 0.9375, grid.P(1, 1), 0.125, true},
		{"cell centre", 1.5 - 1.0/64, 1.5 - 1.0/64, grid.P(1, 1), 1 - 1.0/32, false},
		{"near a line only", 4.0625, 2.375, grid.P(4, 2), 0.4375, false},
		{"boundary corner", 0.125, -0.125, grid.P(0, 0), 0.25, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wx, wy := world(r, tc.u, tc.v)
			s, err := r.NearestLatticePoint(wx, wy, zoom)
			if err != nil {
				t.Fatal(err)
			}
			if s.Point != tc.point {
				t.Errorf("Point = %s, expected %s", s.Point, tc.point)
			}
			if math.Abs(s.Residual-tc.residual) > 1e-9 {
				t.Errorf("Residual = %g, expected %g", s.Residual, tc.residual)
			}
			if s.NearCorner(0.2) != tc.near {
				t.Errorf("NearCorner(0.2) = %v, expected %v", s.NearCorner(0.2), tc.near)
			}
		})
	}
}

func TestNearestEdge(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name     string
		u, v     float64
		expected grid.Edge
		ok       bool
	}{
		{"on horizontal line", 1.5, 1.03125, grid.E(1, 1, 2, 1), true},
		{"below horizontal line", 0.5, 2.875, grid.E(0, 3, 1, 3), true},
		{"on vertical line", 2.03125, 0.5, grid.E(2, 0, 2, 1), true},
		{"left of vertical line", 2.875, 4.5, grid.E(3, 4, 3, 5), true},
		{"vertical closer near corner", 1.03125, 1.15625, grid.E(1, 1, 1, 2), true},
		{"horizontal closer near corner", 0.8125, 2.0, grid.E(0, 2, 1, 2), true},
		{"tie at intersection", 1.0625, 1.09375, grid.Edge{}, false},
		{"cell centre", 1.5, 1.5, grid.Edge{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wx, wy := world(r, tc.u, tc.v)
			e, ok, err := r.NearestEdge(wx, wy, zoom)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tc.ok {
				t.Fatalf("ok = %v, expected %v (edge %s)", ok, tc.ok, e)
			}
			if ok && !e.Same(tc.expected) {
				t.Errorf("NearestEdge = %s, expected %s", e, tc.expected)
			}
		})
	}
}

func TestInvalidZoom(t *testing.T) {
	r := newResolver(t)

	for _, z := range []float64{0, -4, math.Inf(1), math.NaN()} {
		if _, err := r.NearestCell(1, 1, z); !errors.Is(err, ErrInvalidZoom) {
			t.Errorf("NearestCell zoom %g: error = %v", z, err)
		}
		if _, err := r.NearestLatticePoint(1, 1, z); !errors.Is(err, ErrInvalidZoom) {
			t.Errorf("NearestLatticePoint zoom %g: error = %v", z, err)
		}
		if _, _, err := r.NearestEdge(1, 1, z); !errors.Is(err, ErrInvalidZoom) {
			t.Errorf("NearestEdge zoom %g: error = %v", z, err)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero start tolerance", func(c *Config) { c.StartTolerance = 0 }, false},
		{"commit tolerance above half", func(c *Config) { c.CommitTolerance = 0.6 }, false},
		{"drag band below one cell", func(c *Config) { c.DragMax = 0.95 }, false},
		{"drag band reaches diagonal", func(c *Config) { c.DragMax = 1.5 }, false},
		{"tie margin wider than band", func(c *Config) { c.EraseTieMargin = 0.3 }, false},
		{"infinite shift", func(c *Config) { c.OriginShift = math.Inf(-1) }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}
