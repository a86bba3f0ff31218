package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

// Row mirrors a single row of the notes table.
type Row struct {
	ID                int64
	Path              string
	ParentPath        sql.NullString
	MTime             time.Time
	ContentHash       string
	Archived          bool
	ArchivedAt        sql.NullTime
	AccessCount       int64
	LastAccessedAt    sql.NullTime
	FrecencyScore     float64
	DirectAccessCount int64
}

func scanRow(scanner interface {
	Scan(dest ...any) error
}) (Row, error) {
	var r Row
	var archivedInt int
	var mtimeUnix int64
	var archivedAtUnix sql.NullInt64
	var lastAccessedUnix sql.NullInt64

	err := scanner.Scan(
		&r.ID, &r.Path, &r.ParentPath, &mtimeUnix, &r.ContentHash,
		&archivedInt, &archivedAtUnix, &r.AccessCount, &lastAccessedUnix,
		&r.FrecencyScore, &r.DirectAccessCount,
	)
	if err != nil {
		return Row{}, err
	}
	r.Archived = archivedInt != 0
	r.MTime = time.Unix(mtimeUnix, 0).UTC()
	if archivedAtUnix.Valid {
		r.ArchivedAt = sql.NullTime{Time: time.Unix(archivedAtUnix.Int64, 0).UTC(), Valid: true}
	}
	if lastAccessedUnix.Valid {
		r.LastAccessedAt = sql.NullTime{Time: time.Unix(lastAccessedUnix.Int64, 0).UTC(), Valid: true}
	}
	return r, nil
}

const rowColumns = `id, path, parent_path, mtime, content_hash, archived, archived_at, access_count, last_accessed_at, frecency_score, direct_access_count`

// wrapDb turns a non-nil database/sql error into a *zinerr.Error, passing
// nil straight through.
func wrapDb(path string, err error) error {
	if err == nil {
		return nil
	}
	return zinerr.Dbf(path, err)
}

// ParentPathParam converts a possibly-empty parent path into the nullable
// form stored in the database: no parent (root note, or a top-level note)
// is represented as NULL, matching the original's get_parent_path, which
// never returns an empty-string parent.
func ParentPathParam(parent string, hasParent bool) sql.NullString {
	if !hasParent {
		return sql.NullString{}
	}
	return sql.NullString{String: parent, Valid: true}
}

// Exists reports whether a note row exists at path.
func (s *Store) Exists(path string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM notes WHERE path = ?", path).Scan(&count)
	if err != nil {
		return false, zinerr.Dbf(path, err)
	}
	return count > 0, nil
}

// GetByPath returns the row at path.
func (s *Store) GetByPath(path string) (Row, bool, error) {
	row := s.db.QueryRow(fmt.Sprintf("SELECT %s FROM notes WHERE path = ?", rowColumns), path)
	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, zinerr.Dbf(path, err)
	}
	return r, true, nil
}

// Insert adds a new note row and returns its id.
func (s *Store) Insert(path string, parentPath sql.NullString, mtime time.Time, contentHash string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO notes (path, parent_path, mtime, content_hash) VALUES (?, ?, ?, ?)`,
		path, parentPath, mtime.Unix(), contentHash,
	)
	if err != nil {
		return 0, zinerr.Dbf(path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, zinerr.Dbf(path, err)
	}
	return id, nil
}

// UpdateContent updates mtime and content_hash for an existing row.
func (s *Store) UpdateContent(path string, mtime time.Time, contentHash string) error {
	_, err := s.db.Exec(`UPDATE notes SET mtime = ?, content_hash = ? WHERE path = ?`, mtime.Unix(), contentHash, path)
	if err != nil {
		return zinerr.Dbf(path, err)
	}
	return nil
}

// DeleteByPathAndDescendants removes the row at path and every row whose
// path is nested under it.
func (s *Store) DeleteByPathAndDescendants(path string) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE path = ? OR substr(path, 1, length(?)) = ?`, path, path+"/", path+"/")
	if err != nil {
		return zinerr.Dbf(path, err)
	}
	return nil
}

// DeletePaths removes the rows for exactly the given paths (used by Rescan
// to purge rows with no corresponding file).
func (s *Store) DeletePaths(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return zinerr.Dbf("", err)
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(`DELETE FROM notes WHERE path = ?`)
	if err != nil {
		return zinerr.Dbf("", err)
	}
	defer stmt.Close()
	for _, p := range paths {
		if _, err := stmt.Exec(p); err != nil {
			return zinerr.Dbf(p, err)
		}
	}
	return wrapDb("", tx.Commit())
}

// DescendantPaths returns the paths of every row nested under (not
// including) path.
func (s *Store) DescendantPaths(path string) ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM notes WHERE substr(path, 1, length(?)) = ?`, path+"/", path+"/")
	if err != nil {
		return nil, zinerr.Dbf(path, err)
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, zinerr.Dbf(path, err)
		}
		paths = append(paths, p)
	}
	return paths, wrapDb(path, rows.Err())
}

// RewritePath updates a single row's path/parent_path in place (used for
// rename/archive/unarchive cascades).
func (s *Store) RewritePath(oldPath, newPath string, newParent sql.NullString) error {
	_, err := s.db.Exec(`UPDATE notes SET path = ?, parent_path = ? WHERE path = ?`, newPath, newParent, oldPath)
	if err != nil {
		return zinerr.Dbf(oldPath, err)
	}
	return nil
}

// SetArchived updates a row's path/parent_path/archived state together,
// used by archive/unarchive.
func (s *Store) SetArchived(oldPath, newPath string, newParent sql.NullString, archived bool, archivedAt sql.NullTime) error {
	var archivedAtUnix sql.NullInt64
	if archivedAt.Valid {
		archivedAtUnix = sql.NullInt64{Int64: archivedAt.Time.Unix(), Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE notes SET path = ?, parent_path = ?, archived = ?, archived_at = ? WHERE path = ?`,
		newPath, newParent, boolToInt(archived), archivedAtUnix, oldPath,
	)
	if err != nil {
		return zinerr.Dbf(oldPath, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetChildren returns direct children of parentPath ordered by frecency
// then path.
func (s *Store) GetChildren(parentPath string) ([]Row, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM notes WHERE parent_path = ? ORDER BY frecency_score DESC, path ASC`, rowColumns),
		parentPath,
	)
	if err != nil {
		return nil, zinerr.Dbf(parentPath, err)
	}
	return scanRows(rows, parentPath)
}

// HasChildren reports whether parentPath has any non-archived children.
func (s *Store) HasChildren(parentPath string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM notes WHERE parent_path = ? AND archived = 0 LIMIT 1)`,
		parentPath,
	).Scan(&exists)
	if err != nil {
		return false, zinerr.Dbf(parentPath, err)
	}
	return exists != 0, nil
}

// GetRootNotes returns every note with no parent, ordered by frecency then
// path.
func (s *Store) GetRootNotes() ([]Row, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT %s FROM notes WHERE parent_path IS NULL ORDER BY frecency_score DESC, path ASC`, rowColumns))
	if err != nil {
		return nil, zinerr.Dbf("", err)
	}
	return scanRows(rows, "")
}

// GetAllNotes returns every non-archived note, ordered by frecency then
// path.
func (s *Store) GetAllNotes() ([]Row, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT %s FROM notes WHERE archived = 0 ORDER BY frecency_score DESC, path ASC`, rowColumns))
	if err != nil {
		return nil, zinerr.Dbf("", err)
	}
	return scanRows(rows, "")
}

// AllPaths returns every path currently in the index, used by Rescan to
// find stale rows.
func (s *Store) AllPaths() ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM notes`)
	if err != nil {
		return nil, zinerr.Dbf("", err)
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, zinerr.Dbf("", err)
		}
		paths = append(paths, p)
	}
	return paths, wrapDb("", rows.Err())
}

func scanRows(rows *sql.Rows, path string) ([]Row, error) {
	defer rows.Close()
	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, zinerr.Dbf(path, err)
		}
		out = append(out, r)
	}
	return out, wrapDb(path, rows.Err())
}
