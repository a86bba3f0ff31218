package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

// RankingMode selects the column used to order fuzzy-search results.
type RankingMode int

const (
	RankingVisits RankingMode = iota
	RankingFrecency
)

func (m RankingMode) column() string {
	if m == RankingFrecency {
		return "frecency_score"
	}
	return "direct_access_count"
}

// IndexContent upserts a note's content into the FTS shadow table, keyed by
// the note's own row id so Search's rowid join stays aligned. FTS5 has no
// UPDATE, so an existing row is deleted before the new one is inserted.
func (s *Store) IndexContent(id int64, path, content string) error {
	if _, err := s.db.Exec(`DELETE FROM notes_fts WHERE rowid = ?`, id); err != nil {
		return zinerr.Dbf(path, err)
	}
	if _, err := s.db.Exec(`INSERT INTO notes_fts (rowid, path, content) VALUES (?, ?, ?)`, id, path, content); err != nil {
		return zinerr.Dbf(path, err)
	}
	return nil
}

// RemoveFromIndex deletes a note's FTS row.
func (s *Store) RemoveFromIndex(path string) error {
	if _, err := s.db.Exec(`DELETE FROM notes_fts WHERE path = ?`, path); err != nil {
		return zinerr.Dbf(path, err)
	}
	return nil
}

// Search runs a full text query against the FTS shadow table and returns
// matching note rows.
func (s *Store) Search(query string) ([]Row, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`
			SELECT %s FROM notes_fts
			JOIN notes ON notes_fts.rowid = notes.id
			WHERE notes_fts MATCH ?
		`, prefixColumns("notes.", rowColumns)),
		query,
	)
	if err != nil {
		return nil, zinerr.Dbf(query, err)
	}
	return scanRows(rows, query)
}

// FuzzySearch matches query against note paths by prefix (priority 1) and
// substring (priority 2), ordered by match priority then by ranking, then
// by path. An empty query returns every non-archived note ordered purely
// by ranking.
func (s *Store) FuzzySearch(query string, limit int, mode RankingMode) ([]Row, error) {
	rankCol := mode.column()

	if query == "" {
		q := fmt.Sprintf(`SELECT %s FROM notes WHERE archived = 0 ORDER BY %s DESC, path ASC`, rowColumns, rankCol)
		args := []any{}
		if limit > 0 {
			q += " LIMIT ?"
			args = append(args, limit)
		}
		rows, err := s.db.Query(q, args...)
		if err != nil {
			return nil, zinerr.Dbf(query, err)
		}
		return scanRows(rows, query)
	}

	escaped := escapeLike(query)
	prefixPattern := escaped + "%"
	substringPattern := "%" + escaped + "%"

	q := fmt.Sprintf(`
		SELECT %s,
			CASE
				WHEN LOWER(path) LIKE LOWER(?) ESCAPE '\' THEN 1
				WHEN LOWER(path) LIKE LOWER(?) ESCAPE '\' THEN 2
				ELSE 3
			END AS match_priority
		FROM notes
		WHERE archived = 0 AND LOWER(path) LIKE LOWER(?) ESCAPE '\'
		ORDER BY match_priority ASC, %s DESC, path ASC
	`, rowColumns, rankCol)
	args := []any{prefixPattern, substringPattern, substringPattern}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, zinerr.Dbf(query, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var priority int
		r, err := scanRowWithPriority(rows, &priority)
		if err != nil {
			return nil, zinerr.Dbf(query, err)
		}
		out = append(out, r)
	}
	return out, wrapDb(query, rows.Err())
}

func scanRowWithPriority(rows interface {
	Scan(dest ...any) error
}, priority *int) (Row, error) {
	var r Row
	var archivedInt int
	var mtimeUnix int64
	var archivedAtUnix sql.NullInt64
	var lastAccessedUnix sql.NullInt64

	err := rows.Scan(
		&r.ID, &r.Path, &r.ParentPath, &mtimeUnix, &r.ContentHash,
		&archivedInt, &archivedAtUnix, &r.AccessCount, &lastAccessedUnix,
		&r.FrecencyScore, &r.DirectAccessCount, priority,
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

// escapeLike escapes SQL LIKE wildcards so a literal query never behaves
// like a pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = prefix + p
	}
	return strings.Join(parts, ", ")
}
