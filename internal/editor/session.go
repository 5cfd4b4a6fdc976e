// Package editor holds the editing session: the one map being worked on,
// its file binding and its undo history. All edits flow through
// grid.Map.SetEdge, so the session never sees the two grids disagree.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/pointer"
)

var (
	// ErrNoPath is returned by SaveFile when neither an argument nor a bound path is available.
	ErrNoPath = errors.New("editor: no file path")
	// ErrUnsavedChanges is returned by Reload when local edits would be lost.
	ErrUnsavedChanges = errors.New("editor: unsaved changes")
)

const defaultUndoLimit = 256

// Options configures a Session.
type Options struct {
	// StrictLoad runs the consistency check on every load.
	StrictLoad bool
	// UndoLimit caps the undo history; 0 means the default.
	UndoLimit int
}

// edit is one effective wall change.
type edit struct {
	edge    grid.Edge
	present bool
}

// Session owns exactly one map at a time. It is not safe for concurrent use.
type Session struct {
	m     *grid.Map
	path  string
	dirty bool
	opts  Options
	undo  []edit
	redo  []edit
}

// NewSession starts a session on m, which is not bound to a file.
func NewSession(m *grid.Map, opts Options) *Session {
	if opts.UndoLimit <= 0 {
		opts.UndoLimit = defaultUndoLimit
	}
	return &Session{m: m, opts: opts}
}

// Map returns the current map. Callers must treat it as read-only and edit
// through the session.
func (s *Session) Map() *grid.Map {
	return s.m
}

// Path returns the bound file path, if any.
func (s *Session) Path() string {
	return s.path
}

// Dirty reports whether there are edits since the last save or load.
func (s *Session) Dirty() bool {
	return s.dirty
}

// New replaces the map with a blank one and forgets the file binding.
func (s *Session) New(width, height int) error {
	m, err := grid.New(width, height)
	if err != nil {
		return fmt.Errorf("editor: new map: %w", err)
	}
	s.replace(m, "")
	return nil
}

// Replace installs m wholesale, bound to path (may be empty).
func (s *Session) Replace(m *grid.Map, path string) {
	s.replace(m, path)
}

func (s *Session) replace(m *grid.Map, path string) {
	s.m = m
	s.path = path
	s.dirty = false
	s.undo = nil
	s.redo = nil
}

// SetEdge edits one wall. Geometry errors are returned untouched so gesture
// code can ignore them.
func (s *Session) SetEdge(e grid.Edge, present bool) (bool, error) {
	changed, err := s.m.SetEdge(e, present)
	if err != nil || !changed {
		return false, err
	}
	s.push(edit{edge: e, present: present})
	s.redo = nil
	s.dirty = true
	return true, nil
}

// Apply performs a gesture commit.
func (s *Session) Apply(c pointer.Commit) (bool, error) {
	return s.SetEdge(c.Edge, c.Present)
}

func (s *Session) push(e edit) {
	s.undo = append(s.undo, e)
	if over := len(s.undo) - s.opts.UndoLimit; over > 0 {
		s.undo = append(s.undo[:0], s.undo[over:]...)
	}
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Undo reverts the most recent edit.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	e := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	if _, err := s.m.SetEdge(e.edge, !e.present); err != nil {
		log.Debug("editor: undo failed", "edge", e.edge, "err", err)
		return false
	}
	s.redo = append(s.redo, e)
	s.dirty = true
	return true
}

// Redo re-applies the most recently undone edit.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	e := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	if _, err := s.m.SetEdge(e.edge, e.present); err != nil {
		log.Debug("editor: redo failed", "edge", e.edge, "err", err)
		return false
	}
	s.push(e)
	s.dirty = true
	return true
}

// SaveFile writes the map to path, or to the bound path when path is empty.
// On success the session is bound to the written path.
func (s *Session) SaveFile(ctx context.Context, path string) error {
	if path == "" {
		path = s.path
	}
	if path == "" {
		return ErrNoPath
	}
	if err := formats.Save(ctx, path, s.m); err != nil {
		return fmt.Errorf("editor: save: %w", err)
	}
	s.path = path
	s.dirty = false
	log.Debug("editor: map saved", "path", path)
	return nil
}

// LoadFile replaces the map with the one stored at path. On any failure the
// current map, binding and history are left as they were.
func (s *Session) LoadFile(ctx context.Context, path string) error {
	m, err := formats.Load(ctx, path, s.opts.StrictLoad)
	if err != nil {
		return fmt.Errorf("editor: load: %w", err)
	}
	s.replace(m, path)
	log.Debug("editor: map loaded", "path", path, "dims", m.Dims())
	return nil
}

// Reload re-reads the bound file. It refuses when there are unsaved edits
// and reports false, keeping the undo history, when the file on disk
// matches the map in memory.
func (s *Session) Reload(ctx context.Context) (bool, error) {
	if s.path == "" {
		return false, ErrNoPath
	}
	if s.dirty {
		return false, ErrUnsavedChanges
	}
	m, err := formats.Load(ctx, s.path, s.opts.StrictLoad)
	if err != nil {
		return false, fmt.Errorf("editor: reload: %w", err)
	}
	if m.Equal(s.m) {
		return false, nil
	}
	s.replace(m, s.path)
	log.Debug("editor: map reloaded", "path", s.path)
	return true, nil
}
