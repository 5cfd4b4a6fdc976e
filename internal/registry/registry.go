// Package registry provides a global registry of map file codecs.
// Codecs register themselves in init() functions, so callers pick an
// encoding by name or file extension without importing it directly.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/gridmap/internal/grid"
)

// ErrUnknownFormat is returned when no codec matches a name or extension.
var ErrUnknownFormat = errors.New("registry: unknown map format")

// Codec converts between a map document and its byte form.
type Codec interface {
	// Name returns a unique identifier for the format (e.g., "json").
	Name() string

	// Extensions returns the lowercase file extensions handled, with the dot.
	Extensions() []string

	// Encode serializes a document. Failures wrap grid.ErrSerialization.
	Encode(doc grid.Document) ([]byte, error)

	// Decode parses bytes into a document. It checks syntax only;
	// structural validation is left to grid.Document.Validate.
	Decode(data []byte) (grid.Document, error)
}

// CodecInfo contains metadata about a registered codec.
type CodecInfo struct {
	Name       string
	Extensions []string
}

// Factory is a function that creates a codec.
type Factory func() Codec

var (
	factories = make(map[string]Factory)
	byExt     = make(map[string]string)
	exts      = make(map[string][]string)
	mu        sync.RWMutex
)

// Register adds a codec factory to the registry.
// Panics if the name or one of its extensions is already taken.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: codec %q already registered", name))
	}

	var claimed []string
	for _, ext := range f().Extensions() {
		ext = strings.ToLower(ext)
		if owner, taken := byExt[ext]; taken {
			panic(fmt.Sprintf("registry: extension %q already claimed by %q", ext, owner))
		}
		claimed = append(claimed, ext)
	}

	for _, ext := range claimed {
		byExt[ext] = name
	}
	exts[name] = claimed
	factories[name] = f
}

// List returns information about all registered codecs, sorted by name.
func List() []CodecInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]CodecInfo, 0, len(factories))
	for name := range factories {
		result = append(result, CodecInfo{
			Name:       name,
			Extensions: append([]string(nil), exts[name]...),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a codec by name.
func Create(name string) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f(), nil
}

// ForPath picks the codec registered for the file extension of path.
func ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))

	mu.RLock()
	name, ok := byExt[ext]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: extension %q of %s", ErrUnknownFormat, ext, path)
	}
	return Create(name)
}

// Exists checks if a codec with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
