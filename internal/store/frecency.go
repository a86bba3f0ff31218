package store

import (
	"database/sql"
	"time"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

// CalculateFrecencyScore reproduces the frecency formula: accessCount
// decayed by how long it has been since lastAccessed. A note that has
// never been accessed scores zero.
func CalculateFrecencyScore(accessCount int64, lastAccessed sql.NullTime) float64 {
	if !lastAccessed.Valid {
		return 0
	}
	daysSince := time.Since(lastAccessed.Time).Hours() / 24
	if daysSince < 0 {
		daysSince = 0
	}
	return float64(accessCount) * (100 / (daysSince + 1))
}

// UpdateFrecency bumps access_count (and, if direct, direct_access_count)
// for the note at path and recomputes its frecency_score, all accessed at
// the same instant.
func (s *Store) UpdateFrecency(path string, accessedAt time.Time, direct bool) error {
	row, ok, err := s.GetByPath(path)
	if err != nil {
		return err
	}
	if !ok {
		return zinerr.NotFoundf(path)
	}

	newCount := row.AccessCount + 1
	newScore := CalculateFrecencyScore(newCount, sql.NullTime{Time: accessedAt, Valid: true})

	if direct {
		_, err = s.db.Exec(
			`UPDATE notes SET access_count = ?, last_accessed_at = ?, frecency_score = ?, direct_access_count = direct_access_count + 1 WHERE path = ?`,
			newCount, accessedAt.Unix(), newScore, path,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE notes SET access_count = ?, last_accessed_at = ?, frecency_score = ? WHERE path = ?`,
			newCount, accessedAt.Unix(), newScore, path,
		)
	}
	if err != nil {
		return zinerr.Dbf(path, err)
	}
	return nil
}
