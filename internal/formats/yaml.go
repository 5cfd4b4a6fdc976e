package formats

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/registry"
)

func init() {
	registry.Register("yaml", func() registry.Codec { return YAMLCodec{} })
}

// YAMLCodec reads and writes YAML map files. Tile flags are written in flow
// style so each cell stays on one line.
type YAMLCodec struct{}

// Name implements registry.Codec.
func (YAMLCodec) Name() string { return "yaml" }

// Extensions implements registry.Codec.
func (YAMLCodec) Extensions() []string { return []string{".yaml", ".yml"} }

// Encode implements registry.Codec.
func (YAMLCodec) Encode(doc grid.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", grid.ErrSerialization, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", grid.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// Decode implements registry.Codec.
func (YAMLCodec) Decode(data []byte) (grid.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return grid.Document{}, grid.Corrupt(grid.CodeEmptyDocument, "yaml: empty input")
	}

	var doc grid.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		if _, ok := grid.IsCorrupt(err); ok {
			return grid.Document{}, err
		}
		return grid.Document{}, grid.Corrupt(grid.CodeUndecodable, "yaml: %v", err)
	}
	return doc, nil
}
