// Package store keeps a library of named mesh documents in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/facet/pkg/mesh"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when no document has the requested name.
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS meshes (
    name       TEXT PRIMARY KEY,
    document   TEXT NOT NULL,
    points     INTEGER NOT NULL,
    faces      INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// Item summarizes one stored document.
type Item struct {
	Name      string    `json:"name"`
	Points    int       `json:"points"`
	Faces     int       `json:"faces"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ============================================================
// SQLite Store
// ============================================================

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and applies the
// schema.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores fc under name, replacing any previous document.
func (s *Store) Put(ctx context.Context, name string, fc *mesh.FaceCollection) error {
	if name == "" {
		return fmt.Errorf("store: name must not be empty")
	}
	doc, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encode %q: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO meshes (name, document, points, faces, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            document = excluded.document,
            points = excluded.points,
            faces = excluded.faces,
            updated_at = excluded.updated_at
    `, name, string(doc), fc.NumPoints(), fc.NumFaces(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put %q: %w", name, err)
	}
	return nil
}

// Get loads the document stored under name.
func (s *Store) Get(ctx context.Context, name string) (*mesh.FaceCollection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT document FROM meshes WHERE name = ?`, name)

	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, err
	}

	fc, err := mesh.Decode([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}
	return fc, nil
}

// List returns a summary of every stored document ordered by name.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, points, faces, updated_at
        FROM meshes
        ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		var updated int64
		if err := rows.Scan(&it.Name, &it.Points, &it.Faces, &updated); err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		it.UpdatedAt = time.Unix(updated, 0)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Delete removes the document stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meshes WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
