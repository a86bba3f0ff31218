package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/korbindeman/zinnia/notes"
)

// fakeWatcher is an in-memory Watcher test double: Add/Remove just record
// calls, and tests push synthetic events directly onto the events channel.
type fakeWatcher struct {
	mu      sync.Mutex
	added   []string
	removed []string

	events chan fsnotify.Event
	errs   chan error
	closed bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan fsnotify.Event, 16),
		errs:   make(chan error, 16),
	}
}

func (f *fakeWatcher) Add(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, path)
	return nil
}

func (f *fakeWatcher) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
	return nil
}

func (f *fakeWatcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		close(f.events)
		close(f.errs)
		f.closed = true
	}
	return nil
}

func (f *fakeWatcher) Events() <-chan fsnotify.Event { return f.events }
func (f *fakeWatcher) Errors() <-chan error          { return f.errs }

func (f *fakeWatcher) addedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.added))
	copy(out, f.added)
	return out
}

func newTestAPI(t *testing.T) *notes.API {
	t.Helper()
	api, err := notes.New(t.TempDir())
	if err != nil {
		t.Fatalf("notes.New: %v", err)
	}
	t.Cleanup(func() { api.Close() })
	return api
}

func waitForEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reconciler event")
		return Event{}
	}
}

func TestStartWalksTreeAndRegistersDirectories(t *testing.T) {
	api := newTestAPI(t)
	if _, err := api.CreateNote("projects"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if _, err := api.CreateNote("projects/app"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	fw := newFakeWatcher()
	r := newWithWatcher(api, fw, nil)
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Close()

	added := fw.addedPaths()
	if len(added) < 3 {
		t.Fatalf("expected at least root + 2 subdirs watched, got %v", added)
	}
}

func TestHandleEventIgnoresDatabaseFile(t *testing.T) {
	api := newTestAPI(t)
	fw := newFakeWatcher()
	events := make(chan Event, 4)
	r := newWithWatcher(api, fw, func(e Event) { events <- e })

	dbPath := filepath.Join(api.Root(), ".notes.db")
	r.handleEvent(fsnotify.Event{Name: dbPath, Op: fsnotify.Write})

	select {
	case e := <-events:
		t.Fatalf("unexpected event for db file: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleEventSyncsExternallyWrittenNote(t *testing.T) {
	api := newTestAPI(t)
	if _, err := api.CreateNote("note"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	notePath := filepath.Join(api.Root(), "note", "_index.md")
	if err := os.WriteFile(notePath, []byte("written externally"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fw := newFakeWatcher()
	events := make(chan Event, 4)
	r := newWithWatcher(api, fw, func(e Event) { events <- e })

	r.handleEvent(fsnotify.Event{Name: notePath, Op: fsnotify.Write})

	e := waitForEvent(t, events)
	if e.Kind != Changed {
		t.Fatalf("event kind = %v, want Changed", e.Kind)
	}

	got, err := api.GetNote("note")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Content != "written externally" {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestHandleEventSuppressedDuringOwnOperation(t *testing.T) {
	api := newTestAPI(t)
	if _, err := api.CreateNote("note"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	notePath := filepath.Join(api.Root(), "note", "_index.md")
	if err := os.WriteFile(notePath, []byte("during op"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fw := newFakeWatcher()
	events := make(chan Event, 4)
	r := newWithWatcher(api, fw, func(e Event) { events <- e })

	api.OperationFlag().Store(true)
	defer api.OperationFlag().Store(false)

	r.handleEvent(fsnotify.Event{Name: notePath, Op: fsnotify.Write})

	select {
	case e := <-events:
		t.Fatalf("unexpected event while suppressed: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleEventRenameTriggersRescan(t *testing.T) {
	api := newTestAPI(t)
	if _, err := api.CreateNote("note"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	fw := newFakeWatcher()
	events := make(chan Event, 4)
	r := newWithWatcher(api, fw, func(e Event) { events <- e })

	r.handleEvent(fsnotify.Event{Name: filepath.Join(api.Root(), "note"), Op: fsnotify.Rename})

	e := waitForEvent(t, events)
	if e.Kind != Renamed {
		t.Fatalf("event kind = %v, want Renamed", e.Kind)
	}
}

func TestLoopDispatchesQueuedEvents(t *testing.T) {
	api := newTestAPI(t)
	if _, err := api.CreateNote("note"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	notePath := filepath.Join(api.Root(), "note", "_index.md")
	if err := os.WriteFile(notePath, []byte("via loop"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fw := newFakeWatcher()
	events := make(chan Event, 4)
	r := newWithWatcher(api, fw, func(e Event) { events <- e })

	go r.loop()
	defer r.Close()

	fw.events <- fsnotify.Event{Name: notePath, Op: fsnotify.Write}

	waitForEvent(t, events)
}

func TestPathToNotePathRejectsOutsideRoot(t *testing.T) {
	api := newTestAPI(t)
	fw := newFakeWatcher()
	r := newWithWatcher(api, fw, nil)

	if _, ok := r.pathToNotePath("/some/unrelated/path"); ok {
		t.Fatalf("expected path outside root to be rejected")
	}
}

func TestPathToNotePathResolvesIndexFile(t *testing.T) {
	api := newTestAPI(t)
	if _, err := api.CreateNote("projects"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if _, err := api.CreateNote("projects/app"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	fw := newFakeWatcher()
	r := newWithWatcher(api, fw, nil)

	indexPath := filepath.Join(api.Root(), "projects", "app", "_index.md")
	got, ok := r.pathToNotePath(indexPath)
	if !ok || got != "projects/app" {
		t.Fatalf("pathToNotePath = %q, %v", got, ok)
	}
}
