// Package notes is the public Notes API façade: it composes the filesystem
// layer and the index store into a single transactional surface for
// embedders, and exposes the hooks a filesystem watcher needs to
// cooperate with it safely.
package notes

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/korbindeman/zinnia/internal/notefs"
	"github.com/korbindeman/zinnia/internal/store"
)

// Note is a single note's content and identity.
type Note struct {
	ID       int64
	Path     string
	Content  string
	Modified time.Time
}

// Metadata is a note's identity without its content.
type Metadata struct {
	ID       int64
	Path     string
	Modified time.Time
	Archived bool
}

// RankingMode selects how FuzzySearch orders its results.
type RankingMode = store.RankingMode

const (
	RankingVisits   = store.RankingVisits
	RankingFrecency = store.RankingFrecency
)

// API is the embeddable façade over a single notes root. All methods are
// safe for concurrent use; a single mutex serializes every operation, and
// an atomic suppression flag tells a cooperating watcher to ignore
// filesystem events caused by the API's own writes.
type API struct {
	mu sync.Mutex

	fs *notefs.NoteFilesystem
	db *store.Store

	operationInProgress atomic.Bool

	callbackMu       sync.Mutex
	frecencyCallback func()
}

// New constructs an API rooted at the given directory, creating it and its
// index database if necessary.
func New(root string) (*API, error) {
	fs, err := notefs.New(root)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(root)
	if err != nil {
		return nil, err
	}
	return &API{fs: fs, db: db}, nil
}

// Close releases the underlying index database.
func (a *API) Close() error {
	return a.db.Close()
}

// Root returns the notes root directory.
func (a *API) Root() string {
	return a.fs.Root()
}

// SetFrecencyCallback installs a callback invoked once each time GetNote or
// SaveNote records an access and updates frecency scores. Pass nil to clear
// it.
func (a *API) SetFrecencyCallback(cb func()) {
	a.callbackMu.Lock()
	defer a.callbackMu.Unlock()
	a.frecencyCallback = cb
}

func (a *API) fireFrecencyCallback() {
	a.callbackMu.Lock()
	cb := a.frecencyCallback
	a.callbackMu.Unlock()
	if cb != nil {
		cb()
	}
}

// OperationFlag returns the suppression flag a watcher must check before
// reacting to a filesystem event: while it is set, the event was caused by
// this API and should be ignored.
func (a *API) OperationFlag() *atomic.Bool {
	return &a.operationInProgress
}

// beginOperation marks a mutating operation as in progress. Callers must
// defer the returned func to clear the flag on every exit path, mirroring
// the original's RAII operation guard.
func (a *API) beginOperation() func() {
	a.operationInProgress.Store(true)
	return func() { a.operationInProgress.Store(false) }
}

// StartupSync brings the index up to date with the filesystem; call this
// once after New before serving any requests.
func (a *API) StartupSync() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rescan()
}
