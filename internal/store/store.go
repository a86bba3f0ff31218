// Package store is the embedded relational index (IDX) over a notes tree:
// a SQLite database tracking path, content hash, archive state, access
// counters, and frecency score for every note, plus an FTS5 shadow table
// for full text search.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

const dbFileName = ".notes.db"

// Store wraps the SQLite-backed index for a single notes root.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the index database for the given notes
// root and applies any pending migrations. If the database's schema turns
// out to be incompatible with what this version expects, it is deleted
// and recreated from scratch — the filesystem remains the source of truth,
// so a fresh rescan can always rebuild the index.
func Open(root string) (*Store, error) {
	dbPath := filepath.Join(root, dbFileName)
	s, err := openDB(dbPath)
	if err != nil {
		if isSchemaMismatch(err) {
			os.Remove(dbPath)
			os.Remove(dbPath + "-wal")
			os.Remove(dbPath + "-shm")
			return openDB(dbPath)
		}
		return nil, err
	}
	return s, nil
}

func isSchemaMismatch(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "SQL logic error")
}

func openDB(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, zinerr.Dbf("", fmt.Errorf("create db directory: %w", err))
	}

	escapedPath := strings.ReplaceAll(dbPath, " ", "%20")
	db, err := sql.Open("sqlite", "file:"+escapedPath+"?_time_format=sqlite")
	if err != nil {
		return nil, zinerr.Dbf("", fmt.Errorf("open database: %w", err))
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, zinerr.Dbf("", fmt.Errorf("enable WAL mode: %w", err))
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, zinerr.Dbf("", fmt.Errorf("enable foreign keys: %w", err))
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := verifySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for callers that need raw access
// (primarily tests).
func (s *Store) DB() *sql.DB {
	return s.db
}
