package main

import (
	"testing"

	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/grid"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    grid.Point
		wantErr bool
	}{
		{"0,0", grid.P(0, 0), false},
		{"3, 4", grid.P(3, 4), false},
		{"3", grid.Point{}, true},
		{"a,1", grid.Point{}, true},
		{"1,b", grid.Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePoint(%q) = %s, expected %s", tt.in, got, tt.want)
		}
	}
}

func TestWithDefaultExt(t *testing.T) {
	cfg = config.Default()

	if got := withDefaultExt("maze"); got != "maze.json" {
		t.Errorf("withDefaultExt(maze) = %q", got)
	}
	if got := withDefaultExt("maze.yaml"); got != "maze.yaml" {
		t.Errorf("withDefaultExt kept no extension: %q", got)
	}
}

func TestAddBorder(t *testing.T) {
	m, err := grid.New(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := addBorder(m); err != nil {
		t.Fatal(err)
	}
	if n := m.Walls().PresentCount(); n != 10 {
		t.Errorf("border has %d walls, expected 10", n)
	}
	for _, c := range []grid.Point{grid.P(0, 0), grid.P(2, 1)} {
		tile, err := m.Cells().Tile(c.X, c.Y)
		if err != nil {
			t.Fatal(err)
		}
		blocked := 0
		for _, d := range grid.Directions() {
			if tile.Blocked(d) {
				blocked++
			}
		}
		if blocked != 2 {
			t.Errorf("corner cell %s blocked on %d sides, expected 2", c, blocked)
		}
	}
	if err := m.CheckConsistency(); err != nil {
		t.Error(err)
	}
}
