package formats

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/registry"
)

type failingCodec struct{}

func (failingCodec) Name() string         { return "failing" }
func (failingCodec) Extensions() []string { return []string{".fail"} }

func (failingCodec) Encode(grid.Document) ([]byte, error) {
	return nil, errors.Join(grid.ErrSerialization, errors.New("refusing to encode"))
}

func (failingCodec) Decode([]byte) (grid.Document, error) {
	return grid.Document{}, grid.Corrupt(grid.CodeUndecodable, "refusing to decode")
}

func init() {
	registry.Register("failing", func() registry.Codec { return failingCodec{} })
}

// sampleMap builds a 3x3 map with two walls.
func sampleMap(t *testing.T) *grid.Map {
	t.Helper()
	m, err := grid.New(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddWall(1, 1, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.AddWall(2, 1, 2, 2); err != nil {
		t.Fatal(err)
	}
	return m
}

// moveTable records ValidateMove for every cell and direction.
func moveTable(t *testing.T, m *grid.Map) map[string]bool {
	t.Helper()
	out := make(map[string]bool)
	d := m.Dims()
	for y := 0; y < d.Y; y++ {
		for x := 0; x < d.X; x++ {
			for _, dir := range grid.Directions() {
				ok, err := m.ValidateMove(grid.P(x, y), dir)
				if err != nil {
					t.Fatal(err)
				}
				out[grid.P(x, y).String()+dir.String()] = ok
			}
		}
	}
	return out
}

func TestSaveLoadPreservesMovement(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			ctx := context.Background()
			m := sampleMap(t)
			path := filepath.Join(t.TempDir(), "map"+ext)

			if err := Save(ctx, path, m); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			loaded, err := Load(ctx, path, true)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if !loaded.Equal(m) {
				t.Error("loaded map differs from saved map")
			}
			before, after := moveTable(t, m), moveTable(t, loaded)
			for k, v := range before {
				if after[k] != v {
					t.Errorf("ValidateMove %s: before %v, after %v", k, v, after[k])
				}
			}
			if ok, _ := loaded.ValidateMove(grid.P(1, 1), grid.Right); ok {
				t.Error("vertical wall lost across reload")
			}
		})
	}
}

func TestJSONSchema(t *testing.T) {
	m := sampleMap(t)
	data, err := Marshal(m.Snapshot(), "json")
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"walls", "dim_x", "dim_y"} {
		if _, ok := raw["wall_grid"][key]; !ok {
			t.Errorf("wall_grid.%s missing", key)
		}
	}
	for _, key := range []string{"tiles", "dim_x", "dim_y"} {
		if _, ok := raw["map_grid"][key]; !ok {
			t.Errorf("map_grid.%s missing", key)
		}
	}
	if !strings.Contains(string(data), `"pres": true`) || !strings.Contains(string(data), `"vis"`) {
		t.Error("wall segments should be encoded as vis/pres")
	}
}

func TestUnmarshalRoundTrip(t *testing.T) {
	m := sampleMap(t)
	for _, format := range []string{"json", "yaml"} {
		data, err := Marshal(m.Snapshot(), format)
		if err != nil {
			t.Fatalf("%s: Marshal() error = %v", format, err)
		}
		saved, err := Unmarshal(data, format)
		if err != nil {
			t.Fatalf("%s: Unmarshal() error = %v", format, err)
		}
		g, err := saved.Grids()
		if err != nil {
			t.Fatal(err)
		}
		if !g.Equal(m) {
			t.Errorf("%s: round trip changed the map", format)
		}
	}
}

func TestLoadFailures(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name     string
		path     string
		expected error
	}{
		{"missing file", filepath.Join(dir, "absent.json"), os.ErrNotExist},
		{"unknown extension", write("map.txt", "{}"), registry.ErrUnknownFormat},
		{"empty json", write("empty.json", "  \n"), grid.ErrCorruptMapFile},
		{"bad json", write("bad.json", "{wall_grid"), grid.ErrCorruptMapFile},
		{"bad yaml", write("bad.yaml", "wall_grid: [unclosed"), grid.ErrCorruptMapFile},
		{"missing grid", write("half.json", `{"map_grid":{"tiles":[{"walls":[false,false,false,false]}],"dim_x":1,"dim_y":1}}`), grid.ErrCorruptMapFile},
		{"zero dims", write("zero.json", `{"wall_grid":{"walls":[],"dim_x":0,"dim_y":0},"map_grid":{"tiles":[],"dim_x":0,"dim_y":0}}`), grid.ErrCorruptMapFile},
		{"short tile flags json", write("short.json", oneCellJSON("false,false")), grid.ErrCorruptMapFile},
		{"long tile flags json", write("long.json", oneCellJSON("false,false,false,false,true,true")), grid.ErrCorruptMapFile},
		{"short tile flags yaml", write("short.yaml", oneCellYAML("false, false")), grid.ErrCorruptMapFile},
		{"long tile flags yaml", write("long.yaml", oneCellYAML("false, false, false, false, true, true")), grid.ErrCorruptMapFile},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(ctx, tc.path, true)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Load() error = %v, expected %v", err, tc.expected)
			}
		})
	}
}

const oneCellWalls = `[{"vis":false,"pres":false},{"vis":false,"pres":false},{"vis":false,"pres":false},{"vis":false,"pres":false}]`

// oneCellJSON is a 1x1 map file whose only tile carries the given flags.
func oneCellJSON(flags string) string {
	return `{"wall_grid":{"walls":` + oneCellWalls + `,"dim_x":1,"dim_y":1},` +
		`"map_grid":{"tiles":[{"walls":[` + flags + `]}],"dim_x":1,"dim_y":1}}`
}

func oneCellYAML(flags string) string {
	return "wall_grid:\n  walls: " + oneCellWalls + "\n  dim_x: 1\n  dim_y: 1\n" +
		"map_grid:\n  tiles:\n    - walls: [" + flags + "]\n  dim_x: 1\n  dim_y: 1\n"
}

func TestTileFlagCountSameInBothCodecs(t *testing.T) {
	tests := []struct {
		name  string
		codec registry.Codec
		data  string
	}{
		{"json short", JSONCodec{}, oneCellJSON("false,false")},
		{"json long", JSONCodec{}, oneCellJSON("false,false,false,false,true,true")},
		{"json missing", JSONCodec{}, `{"map_grid":{"tiles":[{}],"dim_x":1,"dim_y":1}}`},
		{"yaml short", YAMLCodec{}, oneCellYAML("false, false")},
		{"yaml long", YAMLCodec{}, oneCellYAML("false, false, false, false, true, true")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.codec.Decode([]byte(tc.data))
			if code, ok := grid.IsCorrupt(err); !ok || code != grid.CodeTileFlags {
				t.Errorf("Decode() error = %v, expected code %s", err, grid.CodeTileFlags)
			}
		})
	}

	// Exactly four flags still decode.
	for _, codec := range []registry.Codec{JSONCodec{}, YAMLCodec{}} {
		data := oneCellJSON("true,false,false,true")
		if codec.Name() == "yaml" {
			data = oneCellYAML("true, false, false, true")
		}
		doc, err := codec.Decode([]byte(data))
		if err != nil {
			t.Fatalf("%s Decode() error = %v", codec.Name(), err)
		}
		if got := doc.MapGrid.Tiles[0].Walls; got != [4]bool{true, false, false, true} {
			t.Errorf("%s tile flags = %v", codec.Name(), got)
		}
	}
}

func TestLoadStrictRejectsDrift(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "drift.json")

	doc := sampleMap(t).Snapshot().Document()
	// Cell (1,0) sits below segment (1,1)-(2,1); drop its UP flag.
	doc.MapGrid.Tiles[1].Walls[2] = false
	data, err := JSONCodec{}.Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(ctx, path, true); !errors.Is(err, grid.ErrInconsistent) {
		t.Errorf("strict Load() error = %v, want ErrInconsistent", err)
	}
	if _, err := Load(ctx, path, false); err != nil {
		t.Errorf("trusting Load() error = %v", err)
	}
}

func TestSaveFailureLeavesNoFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "map.fail")

	err := Save(ctx, path, sampleMap(t))
	if !errors.Is(err, grid.ErrSerialization) {
		t.Fatalf("Save() error = %v, want ErrSerialization", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory has %d entries after failed save", len(entries))
	}
}

func TestSaveReplacesExistingFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")

	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Save(ctx, path, sampleMap(t)); err != nil {
		t.Fatal(err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the map file, found %d entries", len(entries))
	}
	if _, err := Load(ctx, path, true); err != nil {
		t.Errorf("Load() after replace: %v", err)
	}
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	in := filepath.Join(dir, "map.json")
	out := filepath.Join(dir, "nested", "map.yaml")

	m := sampleMap(t)
	if err := Save(ctx, in, m); err != nil {
		t.Fatal(err)
	}
	if err := Convert(ctx, in, out); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "wall_grid:") {
		t.Error("converted file is not YAML")
	}
	loaded, err := Load(ctx, out, true)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Equal(m) {
		t.Error("converted map differs")
	}
}
