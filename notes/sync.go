package notes

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/korbindeman/zinnia/internal/notefs"
	"github.com/korbindeman/zinnia/internal/store"
)

// noteContent is a single note's path, content, and precomputed hash,
// gathered during a rescan's concurrent read phase.
type noteContent struct {
	path string
	body string
	hash string
}

// SyncNote reconciles the index row at path against the filesystem and
// reports whether anything changed (created or content differed). A
// watcher uses the return value to decide whether to emit a change
// notification. If the file no longer exists this returns a NotFound
// error; the caller (typically the watcher, on a delete event) should
// treat that as expected and rely on the next Rescan to purge the row.
func (a *API) SyncNote(path string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.syncNoteLocked(path)
}

// Rescan walks the entire filesystem tree, syncing every note it finds and
// purging any index row with no corresponding file.
func (a *API) Rescan() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rescan()
}

func (a *API) rescan() error {
	fsNotes, err := a.fs.ScanAll()
	if err != nil {
		return err
	}

	contents, err := a.readAllConcurrently(fsNotes)
	if err != nil {
		return err
	}

	fsPaths := make(map[string]bool, len(fsNotes))
	for i, n := range fsNotes {
		fsPaths[n.Path] = true
		if err := a.applySyncedContent(n.Path, n.MTime, contents[i]); err != nil {
			return err
		}
	}

	dbPaths, err := a.db.AllPaths()
	if err != nil {
		return err
	}
	var stale []string
	for _, p := range dbPaths {
		if !fsPaths[p] {
			stale = append(stale, p)
		}
	}
	return a.db.DeletePaths(stale)
}

// readAllConcurrently reads and hashes every note's content in parallel;
// this is read-only filesystem I/O, safe to fan out, and is the bulk of a
// rescan's wall-clock time on a large notes tree.
func (a *API) readAllConcurrently(fsNotes []notefs.Metadata) ([]noteContent, error) {
	contents := make([]noteContent, len(fsNotes))
	var g errgroup.Group
	for i, n := range fsNotes {
		i, n := i, n
		g.Go(func() error {
			body, err := a.fs.ReadNote(n.Path)
			if err != nil {
				return err
			}
			contents[i] = noteContent{path: n.Path, body: body, hash: contentHash(body)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}

// applySyncedContent writes one note's precomputed content/hash to the
// index, inserting or updating as needed. DB writes stay sequential even
// though the reads that produced nc were concurrent.
func (a *API) applySyncedContent(path string, mtime time.Time, nc noteContent) error {
	row, ok, err := a.db.GetByPath(path)
	if err != nil {
		return err
	}

	if ok {
		if row.ContentHash == nc.hash {
			return nil
		}
		if err := a.db.UpdateContent(path, mtime, nc.hash); err != nil {
			return err
		}
		return a.db.IndexContent(row.ID, path, nc.body)
	}

	parent, hasParent := notefs.ParentPath(path)
	id, err := a.db.Insert(path, store.ParentPathParam(parent, hasParent), mtime, nc.hash)
	if err != nil {
		return err
	}
	return a.db.IndexContent(id, path, nc.body)
}
