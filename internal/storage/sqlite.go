// Package storage provides the SQLite map library: named maps with a
// revision history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/telemetry"
)

// ErrNotFound is returned when no map or revision matches.
var ErrNotFound = errors.New("storage: map not found")

// blobFormat is the codec used for stored map data.
const blobFormat = "json"

// Store manages the SQLite database connection for the map library.
type Store struct {
	db *sql.DB
}

// MapEntry describes one library map.
type MapEntry struct {
	ID        string
	Name      string
	Width     int
	Height    int
	Walls     int
	Revision  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Revision is one stored version of a map.
type Revision struct {
	Number    int
	Walls     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; SQLite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS maps (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			dim_x INTEGER NOT NULL,
			dim_y INTEGER NOT NULL,
			walls INTEGER NOT NULL DEFAULT 0,
			revision INTEGER NOT NULL DEFAULT 1,
			format TEXT NOT NULL,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS map_revisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map_id TEXT NOT NULL,
			revision INTEGER NOT NULL,
			walls INTEGER NOT NULL DEFAULT 0,
			format TEXT NOT NULL,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (map_id, revision)
		);
		CREATE INDEX IF NOT EXISTS idx_map_revisions_map ON map_revisions(map_id, revision DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func startSpan(ctx context.Context, name, mapName string) (context.Context, trace.Span) {
	ctx, span := telemetry.Tracer("storage").Start(ctx, name)
	span.SetAttributes(attribute.String("map.name", mapName))
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// SaveMap stores m under name. Saving over an existing name keeps the old
// data as a revision and bumps the revision number.
func (s *Store) SaveMap(ctx context.Context, name string, m *grid.Map) (entry MapEntry, err error) {
	ctx, span := startSpan(ctx, "library.save", name)
	defer func() { endSpan(span, err) }()

	if name == "" {
		return MapEntry{}, fmt.Errorf("storage: map name is empty")
	}
	data, err := formats.Marshal(m.Snapshot(), blobFormat)
	if err != nil {
		return MapEntry{}, fmt.Errorf("storage: cannot encode map: %w", err)
	}
	dims := m.Dims()
	walls := m.Walls().PresentCount()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MapEntry{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	var id string
	var rev int
	err = tx.QueryRowContext(ctx, "SELECT id, revision FROM maps WHERE name = ?", name).Scan(&id, &rev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		rev = 1
		_, err = tx.ExecContext(ctx,
			`INSERT INTO maps (id, name, dim_x, dim_y, walls, revision, format, data)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, name, dims.X, dims.Y, walls, rev, blobFormat, data,
		)
	case err == nil:
		rev++
		_, err = tx.ExecContext(ctx,
			`UPDATE maps
			 SET dim_x = ?, dim_y = ?, walls = ?, revision = ?, format = ?, data = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			dims.X, dims.Y, walls, rev, blobFormat, data, id,
		)
	}
	if err != nil {
		return MapEntry{}, fmt.Errorf("storage: cannot save map: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO map_revisions (map_id, revision, walls, format, data) VALUES (?, ?, ?, ?, ?)",
		id, rev, walls, blobFormat, data,
	); err != nil {
		return MapEntry{}, fmt.Errorf("storage: cannot save revision: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return MapEntry{}, fmt.Errorf("storage: cannot commit: %w", err)
	}

	span.SetAttributes(attribute.Int("map.revision", rev))
	return s.entry(ctx, name)
}

// LoadMap returns the latest revision of the named map.
func (s *Store) LoadMap(ctx context.Context, name string, strict bool) (m *grid.Map, entry MapEntry, err error) {
	ctx, span := startSpan(ctx, "library.load", name)
	defer func() { endSpan(span, err) }()

	entry, err = s.entry(ctx, name)
	if err != nil {
		return nil, MapEntry{}, err
	}

	var format string
	var data []byte
	err = s.db.QueryRowContext(ctx, "SELECT format, data FROM maps WHERE id = ?", entry.ID).Scan(&format, &data)
	if err != nil {
		return nil, MapEntry{}, fmt.Errorf("storage: cannot read map: %w", err)
	}

	m, err = decode(data, format, strict)
	if err != nil {
		return nil, MapEntry{}, fmt.Errorf("storage: map %q: %w", name, err)
	}
	return m, entry, nil
}

// LoadRevision returns a specific revision of the named map.
func (s *Store) LoadRevision(ctx context.Context, name string, revision int, strict bool) (m *grid.Map, err error) {
	ctx, span := startSpan(ctx, "library.load_revision", name)
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int("map.revision", revision))

	var format string
	var data []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT r.format, r.data
		 FROM map_revisions r JOIN maps m ON m.id = r.map_id
		 WHERE m.name = ? AND r.revision = ?`,
		name, revision,
	).Scan(&format, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q revision %d", ErrNotFound, name, revision)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read revision: %w", err)
	}

	m, err = decode(data, format, strict)
	if err != nil {
		return nil, fmt.Errorf("storage: map %q revision %d: %w", name, revision, err)
	}
	return m, nil
}

func decode(data []byte, format string, strict bool) (*grid.Map, error) {
	saved, err := formats.Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	return saved.Restore(strict)
}

func (s *Store) entry(ctx context.Context, name string) (MapEntry, error) {
	var e MapEntry
	var createdAt, updatedAt any
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, dim_x, dim_y, walls, revision, created_at, updated_at
		 FROM maps WHERE name = ?`,
		name,
	).Scan(&e.ID, &e.Name, &e.Width, &e.Height, &e.Walls, &e.Revision, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return MapEntry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return MapEntry{}, fmt.Errorf("storage: cannot query map: %w", err)
	}
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

// ListMaps returns every library map, sorted by name.
func (s *Store) ListMaps(ctx context.Context) ([]MapEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, dim_x, dim_y, walls, revision, created_at, updated_at
		 FROM maps
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query maps: %w", err)
	}
	defer rows.Close()

	var entries []MapEntry
	for rows.Next() {
		var e MapEntry
		var createdAt, updatedAt any
		if err := rows.Scan(&e.ID, &e.Name, &e.Width, &e.Height, &e.Walls, &e.Revision, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// History returns the revisions of the named map, newest first.
func (s *Store) History(ctx context.Context, name string) ([]Revision, error) {
	e, err := s.entry(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT revision, walls, created_at
		 FROM map_revisions
		 WHERE map_id = ?
		 ORDER BY revision DESC`,
		e.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		var createdAt any
		if err := rows.Scan(&r.Number, &r.Walls, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		revs = append(revs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return revs, nil
}

// DeleteMap removes the named map and its history.
func (s *Store) DeleteMap(ctx context.Context, name string) (err error) {
	ctx, span := startSpan(ctx, "library.delete", name)
	defer func() { endSpan(span, err) }()

	e, err := s.entry(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err = tx.ExecContext(ctx, "DELETE FROM map_revisions WHERE map_id = ?", e.ID); err != nil {
		return fmt.Errorf("storage: cannot delete revisions: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM maps WHERE id = ?", e.ID); err != nil {
		return fmt.Errorf("storage: cannot delete map: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string values from SQLite.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
