package notes

import (
	"strings"

	"github.com/korbindeman/zinnia/internal/notefs"
	"github.com/korbindeman/zinnia/internal/store"
	"github.com/korbindeman/zinnia/internal/zinerr"
)

// RenameNote moves a note (and its descendants) from oldPath to newPath.
// A rename that differs only in case is routed through a temporary path
// so it isn't a no-op on case-insensitive filesystems.
func (a *API) RenameNote(oldPath, newPath string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	done := a.beginOperation()
	defer done()

	exists, err := a.db.Exists(oldPath)
	if err != nil {
		return err
	}
	if !exists {
		return zinerr.NotFoundf(oldPath)
	}

	caseOnly := notefs.IsCaseOnlyRename(oldPath, newPath)
	if !caseOnly {
		newExists, err := a.db.Exists(newPath)
		if err != nil {
			return err
		}
		if newExists {
			return zinerr.AlreadyExistsf(newPath)
		}
	}

	descendants, err := a.db.DescendantPaths(oldPath)
	if err != nil {
		return err
	}

	if err := a.fs.MoveNote(oldPath, newPath); err != nil {
		return err
	}

	if err := a.rewritePathAndDescendants(oldPath, newPath, descendants); err != nil {
		return err
	}
	return nil
}

// rewritePathAndDescendants updates the index path/parent_path for path
// and each of its descendant paths to reflect a move from oldPrefix to
// newPrefix.
func (a *API) rewritePathAndDescendants(oldPrefix, newPrefix string, descendants []string) error {
	newParent, newHasParent := notefs.ParentPath(newPrefix)
	if err := a.db.RewritePath(oldPrefix, newPrefix, store.ParentPathParam(newParent, newHasParent)); err != nil {
		return err
	}

	for _, d := range descendants {
		newD := newPrefix + strings.TrimPrefix(d, oldPrefix)
		parent, hasParent := notefs.ParentPath(newD)
		if err := a.db.RewritePath(d, newD, store.ParentPathParam(parent, hasParent)); err != nil {
			return err
		}
	}
	return nil
}
