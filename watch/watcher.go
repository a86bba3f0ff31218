// Package watch is the reconciler: a filesystem watcher that keeps a
// notes.API's index in sync with on-disk changes made outside the API
// (an editor, a sync client, manual file moves), while staying quiet
// about changes the API made itself.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/korbindeman/zinnia/notes"
)

// EventKind classifies a reconciler notification.
type EventKind int

const (
	// Changed means a note was created or its content changed. A deleted
	// note is not reported: its sync fails with NotFound and its row stays
	// until the next rescan.
	Changed EventKind = iota
	// Renamed means a rescan was triggered by a rename/move and any part
	// of the tree may have shifted.
	Renamed
)

// Event is delivered to a caller's onChange callback.
type Event struct {
	Kind EventKind
}

// Watcher is the minimal surface Reconciler needs from an fsnotify-style
// watcher, extracted so tests can substitute a fake.
type Watcher interface {
	Add(path string) error
	Remove(path string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsnotifyWatcher struct {
	w *fsnotify.Watcher
}

func (f *fsnotifyWatcher) Add(path string) error         { return f.w.Add(path) }
func (f *fsnotifyWatcher) Remove(path string) error      { return f.w.Remove(path) }
func (f *fsnotifyWatcher) Close() error                  { return f.w.Close() }
func (f *fsnotifyWatcher) Events() <-chan fsnotify.Event { return f.w.Events }
func (f *fsnotifyWatcher) Errors() <-chan error          { return f.w.Errors }

// Reconciler watches a notes root and keeps the API's index synced with
// filesystem changes made outside of it.
type Reconciler struct {
	api      *notes.API
	watcher  Watcher
	onChange func(Event)
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
	stopped chan struct{}
}

// New builds a Reconciler over api's root. onChange may be nil.
func New(api *notes.API, onChange func(Event)) (*Reconciler, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", err)
	}
	return &Reconciler{
		api:      api,
		watcher:  &fsnotifyWatcher{w: w},
		onChange: onChange,
		log:      zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("component", "watch").Logger(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// newWithWatcher is used by tests to inject a fake Watcher.
func newWithWatcher(api *notes.API, w Watcher, onChange func(Event)) *Reconciler {
	return &Reconciler{
		api:      api,
		watcher:  w,
		onChange: onChange,
		log:      zerolog.Nop(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start walks the notes tree, registers every directory with the
// underlying watcher, and begins processing events in the background.
func (r *Reconciler) Start() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	root := r.api.Root()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := r.watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	go r.loop()
	return nil
}

// Close stops the background event loop and releases the watcher.
func (r *Reconciler) Close() error {
	close(r.done)
	return r.watcher.Close()
}

// Wait blocks until the background event loop has exited, which happens
// once Close is called.
func (r *Reconciler) Wait() {
	<-r.stopped
}

func (r *Reconciler) loop() {
	defer close(r.stopped)
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events():
			if !ok {
				return
			}
			r.handleEvent(event)
		case err, ok := <-r.watcher.Errors():
			if !ok {
				return
			}
			r.log.Error().Err(err).Msg("filesystem watcher error")
		}
	}
}

func (r *Reconciler) handleEvent(event fsnotify.Event) {
	if isDatabaseFile(event.Name) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := fsStat(event.Name); err == nil && info.IsDir() {
			if err := r.watcher.Add(event.Name); err != nil {
				r.log.Error().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
			}
		}
	}

	if event.Op&fsnotify.Rename != 0 {
		if err := r.api.Rescan(); err != nil {
			r.log.Error().Err(err).Msg("rescan after rename failed")
			return
		}
		r.notify(Event{Kind: Renamed})
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove) == 0 {
		return
	}

	notePath, ok := r.pathToNotePath(event.Name)
	if !ok {
		return
	}

	if r.api.OperationFlag().Load() {
		return
	}

	changed, err := r.api.SyncNote(notePath)
	if err != nil {
		r.log.Error().Err(err).Str("path", notePath).Msg("sync note failed")
		return
	}
	if changed {
		r.notify(Event{Kind: Changed})
	}
}

func (r *Reconciler) notify(e Event) {
	if r.onChange != nil {
		r.onChange(e)
	}
}

// pathToNotePath converts an absolute filesystem path into a note path
// relative to the notes root, or ok=false if the path isn't note-related.
func (r *Reconciler) pathToNotePath(fsPath string) (string, bool) {
	root := r.api.Root()
	rel, err := filepath.Rel(root, fsPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	if rel == "_index.md" {
		return "", true
	}
	if strings.HasSuffix(rel, "/_index.md") {
		return strings.TrimSuffix(rel, "/_index.md"), true
	}
	if info, err := fsStat(fsPath); err == nil && info.IsDir() {
		return rel, true
	}
	return "", false
}

func isDatabaseFile(path string) bool {
	name := filepath.Base(path)
	return name == ".notes.db" || strings.HasPrefix(name, ".notes.db-")
}

func fsStat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
