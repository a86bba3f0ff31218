package notes

import (
	"database/sql"
	"strings"
	"time"

	"github.com/korbindeman/zinnia/internal/notefs"
	"github.com/korbindeman/zinnia/internal/store"
	"github.com/korbindeman/zinnia/internal/zinerr"
)

// ArchiveNote moves a note (and its descendants) under an _archive
// directory next to its parent (or under a root-level _archive directory
// for a top-level note), marking it archived in the index.
func (a *API) ArchiveNote(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	done := a.beginOperation()
	defer done()

	exists, err := a.db.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return zinerr.NotFoundf(path)
	}

	archivePath := archivePathFor(path)

	descendants, err := a.db.DescendantPaths(path)
	if err != nil {
		return err
	}

	if err := a.fs.MoveNote(path, archivePath); err != nil {
		return err
	}

	now := time.Now()
	archivedAt := sql.NullTime{Time: now, Valid: true}
	if err := a.setArchivedAndDescendants(path, archivePath, descendants, true, archivedAt); err != nil {
		return err
	}
	return nil
}

// UnarchiveNote reverses ArchiveNote, restoring the note (and its
// descendants) to their pre-archive location.
func (a *API) UnarchiveNote(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	done := a.beginOperation()
	defer done()

	var unarchivePath string
	switch {
	case strings.HasPrefix(path, "_archive/"):
		unarchivePath = strings.TrimPrefix(path, "_archive/")
	case strings.Contains(path, "/_archive/"):
		unarchivePath = strings.ReplaceAll(path, "/_archive/", "/")
	default:
		return zinerr.NotFoundf(path)
	}

	exists, err := a.db.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return zinerr.NotFoundf(path)
	}

	descendants, err := a.db.DescendantPaths(path)
	if err != nil {
		return err
	}

	if err := a.fs.MoveNote(path, unarchivePath); err != nil {
		return err
	}

	if err := a.setArchivedAndDescendants(path, unarchivePath, descendants, false, sql.NullTime{}); err != nil {
		return err
	}
	return nil
}

func (a *API) setArchivedAndDescendants(oldPrefix, newPrefix string, descendants []string, archived bool, archivedAt sql.NullTime) error {
	newParent, newHasParent := notefs.ParentPath(newPrefix)
	if err := a.db.SetArchived(oldPrefix, newPrefix, store.ParentPathParam(newParent, newHasParent), archived, archivedAt); err != nil {
		return err
	}

	for _, d := range descendants {
		newD := newPrefix + strings.TrimPrefix(d, oldPrefix)
		parent, hasParent := notefs.ParentPath(newD)
		if err := a.db.SetArchived(d, newD, store.ParentPathParam(parent, hasParent), archived, archivedAt); err != nil {
			return err
		}
	}
	return nil
}

// archivePathFor computes where path's note moves to when archived:
// parent/_archive/name if it has a parent, else _archive/name.
func archivePathFor(path string) string {
	parent, hasParent := notefs.ParentPath(path)
	name := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		name = path[idx+1:]
	}
	if hasParent {
		return parent + "/_archive/" + name
	}
	return "_archive/" + name
}
