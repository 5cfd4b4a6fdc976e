package formats

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/registry"
	"github.com/vovakirdan/gridmap/internal/telemetry"
)

// Marshal encodes a saved map with the named codec.
func Marshal(saved grid.SavedMap, format string) ([]byte, error) {
	c, err := registry.Create(format)
	if err != nil {
		return nil, err
	}
	return c.Encode(saved.Document())
}

// Unmarshal decodes and structurally validates data in the named format.
func Unmarshal(data []byte, format string) (grid.SavedMap, error) {
	c, err := registry.Create(format)
	if err != nil {
		return grid.SavedMap{}, err
	}
	doc, err := c.Decode(data)
	if err != nil {
		return grid.SavedMap{}, err
	}
	return doc.SavedMap()
}

// ReadFile reads a map file, picking the codec from its extension.
// The document is validated structurally but not for consistency.
func ReadFile(ctx context.Context, path string) (grid.SavedMap, error) {
	_, span := telemetry.Tracer("formats").Start(ctx, "map.read")
	defer span.End()
	span.SetAttributes(attribute.String("map.path", path))

	saved, err := readFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return grid.SavedMap{}, err
	}
	return saved, nil
}

func readFile(path string) (grid.SavedMap, error) {
	c, err := registry.ForPath(path)
	if err != nil {
		return grid.SavedMap{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return grid.SavedMap{}, fmt.Errorf("formats: reading %s: %w", path, err)
	}
	doc, err := c.Decode(data)
	if err != nil {
		return grid.SavedMap{}, fmt.Errorf("formats: parsing %s: %w", path, err)
	}
	saved, err := doc.SavedMap()
	if err != nil {
		return grid.SavedMap{}, fmt.Errorf("formats: %s: %w", path, err)
	}
	return saved, nil
}

// Load reads a map file into a fresh Map. With strict set, the file must
// also pass Map.CheckConsistency.
func Load(ctx context.Context, path string, strict bool) (*grid.Map, error) {
	saved, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	m, err := saved.Restore(strict)
	if err != nil {
		return nil, fmt.Errorf("formats: %s: %w", path, err)
	}
	return m, nil
}

// WriteFile encodes saved with the codec chosen by the extension of path and
// replaces the file atomically. Nothing touches the filesystem until encoding
// has succeeded, and a failed write leaves any previous file intact.
func WriteFile(ctx context.Context, path string, saved grid.SavedMap) error {
	_, span := telemetry.Tracer("formats").Start(ctx, "map.write")
	defer span.End()
	span.SetAttributes(attribute.String("map.path", path))

	if err := writeFile(path, saved); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return err
	}
	return nil
}

func writeFile(path string, saved grid.SavedMap) error {
	c, err := registry.ForPath(path)
	if err != nil {
		return err
	}
	data, err := c.Encode(saved.Document())
	if err != nil {
		return fmt.Errorf("formats: encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("formats: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("formats: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("formats: writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("formats: syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("formats: closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return fmt.Errorf("formats: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("formats: replacing %s: %w", path, err)
	}
	return nil
}

// Save writes a snapshot of m to path.
func Save(ctx context.Context, path string, m *grid.Map) error {
	return WriteFile(ctx, path, m.Snapshot())
}

// Convert re-encodes the map file in into out. Both codecs are picked by extension.
func Convert(ctx context.Context, in, out string) error {
	saved, err := ReadFile(ctx, in)
	if err != nil {
		return err
	}
	return WriteFile(ctx, out, saved)
}
