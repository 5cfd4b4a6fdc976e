package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/gridmap/internal/grid"
)

type stubCodec struct {
	name string
	exts []string
}

func (c stubCodec) Name() string         { return c.name }
func (c stubCodec) Extensions() []string { return c.exts }

func (c stubCodec) Encode(grid.Document) ([]byte, error) { return []byte(c.name), nil }

func (c stubCodec) Decode([]byte) (grid.Document, error) { return grid.Document{}, nil }

func init() {
	Register("stub-a", func() Codec { return stubCodec{name: "stub-a", exts: []string{".sta"}} })
	Register("stub-b", func() Codec { return stubCodec{name: "stub-b", exts: []string{".stb", ".STB2"}} })
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"maps/level.sta", "stub-a"},
		{"LEVEL.STA", "stub-a"},
		{"x.stb", "stub-b"},
		{"x.stb2", "stub-b"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			c, err := ForPath(tc.path)
			if err != nil {
				t.Fatalf("ForPath() error = %v", err)
			}
			if c.Name() != tc.expected {
				t.Errorf("ForPath() = %s, expected %s", c.Name(), tc.expected)
			}
		})
	}

	if _, err := ForPath("map.txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ForPath(.txt) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := ForPath("noext"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ForPath(no extension) error = %v, want ErrUnknownFormat", err)
	}
}

func TestCreateAndList(t *testing.T) {
	if !Exists("stub-a") || Exists("missing") {
		t.Error("Exists() disagrees with registrations")
	}
	if _, err := Create("missing"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Create(missing) error = %v", err)
	}

	list := List()
	if len(list) < 2 || list[0].Name != "stub-a" || list[1].Name != "stub-b" {
		t.Fatalf("List() = %+v, want stub-a then stub-b", list)
	}
	if len(list[1].Extensions) != 2 || list[1].Extensions[1] != ".stb2" {
		t.Errorf("stub-b extensions = %v", list[1].Extensions)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	tests := []struct {
		name  string
		codec stubCodec
	}{
		{"same name", stubCodec{name: "stub-a", exts: []string{".new"}}},
		{"same extension", stubCodec{name: "stub-c", exts: []string{".sta"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register() did not panic")
				}
			}()
			Register(tc.codec.name, func() Codec { return tc.codec })
		})
	}
}
