package store

import (
	"database/sql"
	"fmt"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

const schemaVersion = 3

var migrations = []string{
	// v1: base table + FTS shadow.
	`
	CREATE TABLE notes (
		id INTEGER PRIMARY KEY,
		path TEXT UNIQUE NOT NULL,
		parent_path TEXT,
		mtime INTEGER NOT NULL,
		content_hash TEXT NOT NULL,
		archived INTEGER NOT NULL DEFAULT 0,
		archived_at INTEGER
	);
	CREATE INDEX idx_parent_path ON notes(parent_path);
	CREATE INDEX idx_archived ON notes(archived) WHERE archived = 0;
	CREATE VIRTUAL TABLE notes_fts USING fts5(path UNINDEXED, content);
	`,
	// v2: access tracking + frecency.
	`
	ALTER TABLE notes ADD COLUMN access_count INTEGER NOT NULL DEFAULT 0;
	ALTER TABLE notes ADD COLUMN last_accessed_at INTEGER;
	ALTER TABLE notes ADD COLUMN frecency_score REAL NOT NULL DEFAULT 0;
	CREATE INDEX idx_frecency_score ON notes(frecency_score DESC);
	`,
	// v3: direct (as opposed to ancestor-propagated) access counter.
	`
	ALTER TABLE notes ADD COLUMN direct_access_count INTEGER NOT NULL DEFAULT 0;
	CREATE INDEX idx_direct_access_count ON notes(direct_access_count DESC);
	`,
}

func migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return zinerr.Dbf("", fmt.Errorf("read schema version: %w", err))
	}

	for v := current; v < schemaVersion; v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return zinerr.Dbf("", fmt.Errorf("apply migration v%d: %w", v+1, err))
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return zinerr.Dbf("", fmt.Errorf("set schema version %d: %w", v+1, err))
		}
	}
	return nil
}

func verifySchema(db *sql.DB) error {
	for _, table := range []string{"notes", "notes_fts"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type IN ('table','virtual table') AND name = ?", table).Scan(&name)
		if err == sql.ErrNoRows {
			return zinerr.Corrupted(fmt.Sprintf("missing table %q", table))
		}
		if err != nil {
			return zinerr.Dbf("", err)
		}
	}
	return nil
}
