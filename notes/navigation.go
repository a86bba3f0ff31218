package notes

import (
	"github.com/korbindeman/zinnia/internal/notefs"
	"github.com/korbindeman/zinnia/internal/store"
)

func toMetadata(r store.Row) Metadata {
	return Metadata{ID: r.ID, Path: r.Path, Modified: r.MTime, Archived: r.Archived}
}

// GetChildren returns the direct children of path, ordered by frecency
// then path.
func (a *API) GetChildren(path string) ([]Metadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows, err := a.db.GetChildren(path)
	if err != nil {
		return nil, err
	}
	return toMetadataSlice(rows), nil
}

// HasChildren reports whether path has any non-archived children.
func (a *API) HasChildren(path string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.db.HasChildren(path)
}

// GetParent returns path's parent note, or ok=false if path has none.
func (a *API) GetParent(path string) (Metadata, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	parent, hasParent := notefs.ParentPath(path)
	if !hasParent {
		return Metadata{}, false, nil
	}
	row, ok, err := a.db.GetByPath(parent)
	if err != nil || !ok {
		return Metadata{}, false, err
	}
	return toMetadata(row), true, nil
}

// GetAncestors walks up from path's parent chain in the index, silently
// skipping any ancestor that has no row, then appends path itself if it
// exists and is not archived.
func (a *API) GetAncestors(path string) ([]Metadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var ancestors []Metadata
	current := path
	for {
		parent, ok := notefs.ParentPath(current)
		if !ok {
			break
		}
		row, found, err := a.db.GetByPath(parent)
		if err != nil {
			return nil, err
		}
		if found {
			ancestors = append(ancestors, toMetadata(row))
		}
		current = parent
	}

	// reverse so the topmost ancestor comes first
	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
		ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}

	row, found, err := a.db.GetByPath(path)
	if err != nil {
		return nil, err
	}
	if found && !row.Archived {
		ancestors = append(ancestors, toMetadata(row))
	}
	return ancestors, nil
}

// GetRootNotes returns every note with no parent, ordered by frecency then
// path.
func (a *API) GetRootNotes() ([]Metadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows, err := a.db.GetRootNotes()
	if err != nil {
		return nil, err
	}
	return toMetadataSlice(rows), nil
}

// GetAllNotes returns every non-archived note, ordered by frecency then
// path.
func (a *API) GetAllNotes() ([]Metadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows, err := a.db.GetAllNotes()
	if err != nil {
		return nil, err
	}
	return toMetadataSlice(rows), nil
}

func toMetadataSlice(rows []store.Row) []Metadata {
	out := make([]Metadata, len(rows))
	for i, r := range rows {
		out[i] = toMetadata(r)
	}
	return out
}
