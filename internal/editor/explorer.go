package editor

import (
	"fmt"

	"github.com/vovakirdan/gridmap/internal/grid"
)

// Explorer walks a party through a map, revealing the walls of every cell
// it enters.
type Explorer struct {
	m     *grid.Map
	pos   grid.Point
	steps int
}

// NewExplorer places the party at start and reveals that cell.
func NewExplorer(m *grid.Map, start grid.Point) (*Explorer, error) {
	if err := m.Reveal(start); err != nil {
		return nil, fmt.Errorf("editor: explorer start: %w", err)
	}
	return &Explorer{m: m, pos: start}, nil
}

// Move steps one cell in dir if no wall or boundary is in the way.
// It reports whether the party moved.
func (e *Explorer) Move(dir grid.Direction) (bool, error) {
	ok, err := e.m.ValidateMove(e.pos, dir)
	if err != nil || !ok {
		return false, err
	}
	e.pos = e.pos.Step(dir)
	e.steps++
	if err := e.m.Reveal(e.pos); err != nil {
		return true, err
	}
	return true, nil
}

// Position returns the party's cell.
func (e *Explorer) Position() grid.Point {
	return e.pos
}

// Steps returns the number of successful moves.
func (e *Explorer) Steps() int {
	return e.steps
}

// Map returns the map being explored.
func (e *Explorer) Map() *grid.Map {
	return e.m
}

// Rebind moves the explorer onto a replacement map, keeping its position
// when it is still inside.
func (e *Explorer) Rebind(m *grid.Map) error {
	pos := e.pos
	if !m.Dims().ContainsCell(pos) {
		pos = grid.P(0, 0)
	}
	if err := m.Reveal(pos); err != nil {
		return fmt.Errorf("editor: explorer rebind: %w", err)
	}
	e.m = m
	e.pos = pos
	return nil
}
