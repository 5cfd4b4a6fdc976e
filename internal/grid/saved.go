package grid

import "errors"

// SavedMap is the unit of persistence: one WallGrid and one MapGrid. It holds
// its own clones, so later edits to the source map do not leak into it.
type SavedMap struct {
	walls *WallGrid
	cells *MapGrid
}

// NewSavedMap bundles clones of both grids. No validation is performed.
func NewSavedMap(walls *WallGrid, cells *MapGrid) SavedMap {
	s := SavedMap{}
	if walls != nil {
		s.walls = walls.Clone()
	}
	if cells != nil {
		s.cells = cells.Clone()
	}
	return s
}

// WallGrid returns a copy of the stored wall grid.
func (s SavedMap) WallGrid() *WallGrid {
	if s.walls == nil {
		return nil
	}
	return s.walls.Clone()
}

// MapGrid returns a copy of the stored cell grid.
func (s SavedMap) MapGrid() *MapGrid {
	if s.cells == nil {
		return nil
	}
	return s.cells.Clone()
}

// Grids returns a fresh Map built from copies of the stored grids.
// It fails when either grid is missing or their dimensions differ.
func (s SavedMap) Grids() (*Map, error) {
	if s.walls == nil || s.cells == nil {
		return nil, corrupt(CodeMissingGrid, "saved map is missing a grid")
	}
	if s.walls.dims != s.cells.dims {
		return nil, corrupt(CodeDimMismatch, "wall grid is %dx%d, map grid is %dx%d",
			s.walls.dims.X, s.walls.dims.Y, s.cells.dims.X, s.cells.dims.Y)
	}
	return &Map{cells: s.cells.Clone(), walls: s.walls.Clone()}, nil
}

// Document returns the serializable form of the bundle.
func (s SavedMap) Document() Document {
	var doc Document
	if s.walls != nil {
		doc.WallGrid = &WallGridDoc{Walls: s.walls.Walls(), DimX: s.walls.dims.X, DimY: s.walls.dims.Y}
	}
	if s.cells != nil {
		doc.MapGrid = &MapGridDoc{Tiles: s.cells.Tiles(), DimX: s.cells.dims.X, DimY: s.cells.dims.Y}
	}
	return doc
}

// Document is the on-disk layout of a map file. Field names are stable.
type Document struct {
	WallGrid *WallGridDoc `json:"wall_grid" yaml:"wall_grid"`
	MapGrid  *MapGridDoc  `json:"map_grid" yaml:"map_grid"`
}

// WallGridDoc is the serialized WallGrid.
type WallGridDoc struct {
	Walls []Wall `json:"walls" yaml:"walls"`
	DimX  int    `json:"dim_x" yaml:"dim_x"`
	DimY  int    `json:"dim_y" yaml:"dim_y"`
}

// MapGridDoc is the serialized MapGrid.
type MapGridDoc struct {
	Tiles []Tile `json:"tiles" yaml:"tiles"`
	DimX  int    `json:"dim_x" yaml:"dim_x"`
	DimY  int    `json:"dim_y" yaml:"dim_y"`
}

// Validate checks the structure of a decoded document: both grids present,
// positive and equal dimensions, and sequence lengths matching them.
// It does not look at the wall data itself; see Map.CheckConsistency.
func (d Document) Validate() error {
	if d.WallGrid == nil {
		return corrupt(CodeMissingGrid, "wall_grid is missing")
	}
	if d.MapGrid == nil {
		return corrupt(CodeMissingGrid, "map_grid is missing")
	}

	w, m := d.WallGrid, d.MapGrid
	if w.DimX <= 0 || w.DimY <= 0 {
		return corrupt(CodeBadDims, "wall_grid dimensions %dx%d must be positive", w.DimX, w.DimY)
	}
	if m.DimX <= 0 || m.DimY <= 0 {
		return corrupt(CodeBadDims, "map_grid dimensions %dx%d must be positive", m.DimX, m.DimY)
	}
	if w.DimX != m.DimX || w.DimY != m.DimY {
		return corrupt(CodeDimMismatch, "wall_grid is %dx%d, map_grid is %dx%d", w.DimX, w.DimY, m.DimX, m.DimY)
	}

	dims, err := NewDims(w.DimX, w.DimY)
	if err != nil {
		return corrupt(CodeBadDims, "dimensions %dx%d are not supported: %v", w.DimX, w.DimY, err)
	}
	if len(m.Tiles) != dims.CellCount() {
		return corrupt(CodeTileCount, "map_grid has %d tiles, want %d", len(m.Tiles), dims.CellCount())
	}
	if len(w.Walls) != dims.WallCount() {
		return corrupt(CodeWallCount, "wall_grid has %d walls, want %d", len(w.Walls), dims.WallCount())
	}
	return nil
}

// SavedMap converts a validated document into a SavedMap.
func (d Document) SavedMap() (SavedMap, error) {
	if err := d.Validate(); err != nil {
		return SavedMap{}, err
	}
	dims := Dims{X: d.WallGrid.DimX, Y: d.WallGrid.DimY}

	walls := &WallGrid{dims: dims, walls: make([]Wall, len(d.WallGrid.Walls))}
	copy(walls.walls, d.WallGrid.Walls)
	cells := &MapGrid{dims: dims, tiles: make([]Tile, len(d.MapGrid.Tiles))}
	copy(cells.tiles, d.MapGrid.Tiles)

	return SavedMap{walls: walls, cells: cells}, nil
}

// Restore turns a decoded document into a Map. With strict set, the two
// grids must also agree edge for edge.
func Restore(doc Document, strict bool) (*Map, error) {
	saved, err := doc.SavedMap()
	if err != nil {
		return nil, err
	}
	return saved.Restore(strict)
}

// Restore builds a fresh Map from the bundle. With strict set, the two grids
// must also agree edge for edge. Every load path goes through here.
func (s SavedMap) Restore(strict bool) (*Map, error) {
	m, err := s.Grids()
	if err != nil {
		return nil, err
	}
	if strict {
		if err := m.CheckConsistency(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// IsCorrupt reports whether err describes a rejected map file and returns its code.
func IsCorrupt(err error) (string, bool) {
	var ce CorruptError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return "", false
}
