package grid

import (
	"errors"
	"fmt"
)

// Geometry errors are routine during editing (a drag that has not reached a
// valid corner yet) and are expected to be handled silently by callers.
var (
	ErrInvalidLine      = errors.New("grid: invalid line")
	ErrOutOfBounds      = errors.New("grid: coordinate out of bounds")
	ErrInvalidDirection = errors.New("grid: invalid direction")
	ErrInvalidDims      = errors.New("grid: invalid dimensions")
)

// Persistence errors are rare and always surfaced to the caller.
var (
	ErrCorruptMapFile = errors.New("grid: corrupt map file")
	ErrSerialization  = errors.New("grid: serialization failure")
	ErrInconsistent   = errors.New("grid: map grid and wall grid disagree")
)

// Corruption codes reported by CorruptError.
const (
	CodeBadDims       = "BAD_DIMS"
	CodeDimMismatch   = "DIM_MISMATCH"
	CodeTileCount     = "TILE_COUNT"
	CodeTileFlags     = "TILE_FLAGS"
	CodeWallCount     = "WALL_COUNT"
	CodeMissingGrid   = "MISSING_GRID"
	CodeInconsistent  = "INCONSISTENT"
	CodeUndecodable   = "UNDECODABLE"
	CodeUnknownFormat = "UNKNOWN_FORMAT"
	CodeEmptyDocument = "EMPTY_DOCUMENT"
)

// CorruptError describes why a saved map was rejected.
// It matches ErrCorruptMapFile with errors.Is, and ErrInconsistent as well
// when the failure came from the consistency check.
type CorruptError struct {
	Code    string
	Message string
}

func (e CorruptError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target is one of the sentinel errors this failure maps to.
func (e CorruptError) Is(target error) bool {
	switch target {
	case ErrCorruptMapFile:
		return true
	case ErrInconsistent:
		return e.Code == CodeInconsistent
	}
	return false
}

// Corrupt builds a CorruptError. Codecs use it to report undecodable input.
func Corrupt(code, format string, args ...any) error {
	return CorruptError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func corrupt(code, format string, args ...any) error {
	return Corrupt(code, format, args...)
}
