// Package formats provides the map file codecs and the file helpers that
// read and write maps through them. Importing the package registers the
// JSON and YAML codecs.
package formats

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/registry"
)

func init() {
	registry.Register("json", func() registry.Codec { return JSONCodec{} })
}

// JSONCodec reads and writes indented JSON map files.
type JSONCodec struct{}

// Name implements registry.Codec.
func (JSONCodec) Name() string { return "json" }

// Extensions implements registry.Codec.
func (JSONCodec) Extensions() []string { return []string{".json"} }

// Encode implements registry.Codec.
func (JSONCodec) Encode(doc grid.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: json: %v", grid.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// Decode implements registry.Codec.
func (JSONCodec) Decode(data []byte) (grid.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return grid.Document{}, grid.Corrupt(grid.CodeEmptyDocument, "json: empty input")
	}

	var doc grid.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		if _, ok := grid.IsCorrupt(err); ok {
			return grid.Document{}, err
		}
		return grid.Document{}, grid.Corrupt(grid.CodeUndecodable, "json: %v", err)
	}
	return doc, nil
}
