package notes

import (
	"github.com/korbindeman/zinnia/internal/notefs"
	"github.com/korbindeman/zinnia/internal/store"
	"github.com/korbindeman/zinnia/internal/zinerr"
)

// NoteExists reports whether a note is indexed at path.
func (a *API) NoteExists(path string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.db.Exists(path)
}

// CreateNote creates an empty note at path. The parent note (if path is
// nested) must already exist.
func (a *API) CreateNote(path string) (Note, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	done := a.beginOperation()
	defer done()

	exists, err := a.db.Exists(path)
	if err != nil {
		return Note{}, err
	}
	if exists {
		return Note{}, zinerr.AlreadyExistsf(path)
	}

	if parent, ok := notefs.ParentPath(path); ok {
		parentExists, err := a.db.Exists(parent)
		if err != nil {
			return Note{}, err
		}
		if !parentExists {
			return Note{}, zinerr.ParentNotFoundf(parent)
		}
	}

	if err := a.fs.CreateNote(path); err != nil {
		return Note{}, err
	}
	if _, err := a.syncNoteLocked(path); err != nil {
		return Note{}, err
	}
	return a.getNoteInternal(path)
}

// GetNote returns a note's content and records this as an access for
// frecency purposes.
func (a *API) GetNote(path string) (Note, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	note, err := a.getNoteInternal(path)
	if err != nil {
		return Note{}, err
	}
	if err := a.recordAccessLocked(path); err != nil {
		return Note{}, err
	}
	return note, nil
}

// getNoteInternal returns a note's content without recording an access.
func (a *API) getNoteInternal(path string) (Note, error) {
	row, ok, err := a.db.GetByPath(path)
	if err != nil {
		return Note{}, err
	}
	if !ok {
		return Note{}, zinerr.NotFoundf(path)
	}
	content, err := a.fs.ReadNote(path)
	if err != nil {
		return Note{}, err
	}
	return Note{ID: row.ID, Path: row.Path, Content: content, Modified: row.MTime}, nil
}

// SaveNote overwrites a note's content and records an access.
func (a *API) SaveNote(path, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	done := a.beginOperation()
	defer done()

	if err := a.fs.WriteNote(path, content); err != nil {
		return err
	}
	if _, err := a.syncNoteLocked(path); err != nil {
		return err
	}
	return a.recordAccessLocked(path)
}

// DeleteNote permanently removes a note and all its descendants from both
// the filesystem and the index.
func (a *API) DeleteNote(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	done := a.beginOperation()
	defer done()

	if err := a.fs.DeleteNote(path); err != nil {
		return err
	}
	return a.db.DeleteByPathAndDescendants(path)
}

// TrashNote moves a note (and its descendants) to the trash area instead of
// deleting it outright, and removes it from the index.
func (a *API) TrashNote(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	done := a.beginOperation()
	defer done()

	if err := a.fs.TrashNote(path); err != nil {
		return err
	}
	return a.db.DeleteByPathAndDescendants(path)
}

// syncNoteLocked reconciles the index row for path against the current
// filesystem content, returning true if the row was created or its content
// changed. Caller must hold a.mu. It reports NotFound if the note has no
// corresponding file on disk.
func (a *API) syncNoteLocked(path string) (bool, error) {
	mtime, err := a.fs.StatNote(path)
	if err != nil {
		return false, err
	}
	content, err := a.fs.ReadNote(path)
	if err != nil {
		return false, err
	}
	hash := contentHash(content)

	row, ok, err := a.db.GetByPath(path)
	if err != nil {
		return false, err
	}
	parent, hasParent := notefs.ParentPath(path)
	parentParam := store.ParentPathParam(parent, hasParent)

	if ok {
		if row.ContentHash == hash {
			return false, nil
		}
		if err := a.db.UpdateContent(path, mtime, hash); err != nil {
			return false, err
		}
		if err := a.db.IndexContent(row.ID, path, content); err != nil {
			return false, err
		}
		return true, nil
	}

	id, err := a.db.Insert(path, parentParam, mtime, hash)
	if err != nil {
		return false, err
	}
	if err := a.db.IndexContent(id, path, content); err != nil {
		return false, err
	}
	return true, nil
}
