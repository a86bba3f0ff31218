package notes

import (
	"testing"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	api, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { api.Close() })
	return api
}

func TestCreateRootNote(t *testing.T) {
	api := newTestAPI(t)
	note, err := api.CreateNote("")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if note.Path != "" || note.Content != "" {
		t.Fatalf("note = %+v", note)
	}
}

func TestCreateNoteRequiresParent(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.CreateNote("projects/app")
	if kind, ok := zinerr.KindOf(err); !ok || kind != zinerr.ParentNotFound {
		t.Fatalf("err = %v, want ParentNotFound", err)
	}
}

func TestCreateNoteWithParent(t *testing.T) {
	api := newTestAPI(t)
	if _, err := api.CreateNote("projects"); err != nil {
		t.Fatalf("CreateNote(projects): %v", err)
	}
	if _, err := api.CreateNote("projects/app"); err != nil {
		t.Fatalf("CreateNote(projects/app): %v", err)
	}
}

func TestCreateDuplicateNote(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "inbox")
	_, err := api.CreateNote("inbox")
	if kind, ok := zinerr.KindOf(err); !ok || kind != zinerr.AlreadyExists {
		t.Fatalf("err = %v, want AlreadyExists", err)
	}
}

func TestSaveAndGetNote(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "note")
	must(t, api.SaveNote("note", "hello"))

	note, err := api.GetNote("note")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Content != "hello" {
		t.Fatalf("content = %q", note.Content)
	}
}

func TestDeleteNoteRemovesDescendants(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "parent")
	mustCreate(t, api, "parent/child")

	if err := api.DeleteNote("parent"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if ok, _ := api.NoteExists("parent"); ok {
		t.Fatalf("parent should not exist")
	}
	if ok, _ := api.NoteExists("parent/child"); ok {
		t.Fatalf("child should not exist")
	}
}

func TestRenameNote(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "old")
	must(t, api.SaveNote("old", "body"))
	mustCreate(t, api, "old/child")

	if err := api.RenameNote("old", "new"); err != nil {
		t.Fatalf("RenameNote: %v", err)
	}
	note, err := api.GetNote("new")
	if err != nil || note.Content != "body" {
		t.Fatalf("GetNote(new) = %+v, %v", note, err)
	}
	if ok, _ := api.NoteExists("new/child"); !ok {
		t.Fatalf("new/child should exist after rename")
	}
	if ok, _ := api.NoteExists("old"); ok {
		t.Fatalf("old should no longer exist")
	}
}

func TestRenameCaseOnly(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "Notes")

	if err := api.RenameNote("Notes", "notes"); err != nil {
		t.Fatalf("RenameNote case-only: %v", err)
	}
	if ok, _ := api.NoteExists("notes"); !ok {
		t.Fatalf("notes should exist")
	}
}

func TestRenameToExistingFails(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "a")
	mustCreate(t, api, "b")

	err := api.RenameNote("a", "b")
	if kind, ok := zinerr.KindOf(err); !ok || kind != zinerr.AlreadyExists {
		t.Fatalf("err = %v, want AlreadyExists", err)
	}
}

func TestArchiveAndUnarchiveRootLevelNote(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "inbox")

	if err := api.ArchiveNote("inbox"); err != nil {
		t.Fatalf("ArchiveNote: %v", err)
	}
	if ok, _ := api.NoteExists("_archive/inbox"); !ok {
		t.Fatalf("expected archived path to exist")
	}

	if err := api.UnarchiveNote("_archive/inbox"); err != nil {
		t.Fatalf("UnarchiveNote: %v", err)
	}
	if ok, _ := api.NoteExists("inbox"); !ok {
		t.Fatalf("expected inbox restored")
	}
}

func TestArchiveNestedNote(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "projects")
	mustCreate(t, api, "projects/app")

	if err := api.ArchiveNote("projects/app"); err != nil {
		t.Fatalf("ArchiveNote: %v", err)
	}
	if ok, _ := api.NoteExists("projects/_archive/app"); !ok {
		t.Fatalf("expected archived nested path")
	}
}

func TestUnarchiveNonArchivedFails(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "note")

	err := api.UnarchiveNote("note")
	if kind, ok := zinerr.KindOf(err); !ok || kind != zinerr.NotFound {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestGetChildrenAndAncestors(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "a")
	mustCreate(t, api, "a/b")
	mustCreate(t, api, "a/b/c")

	children, err := api.GetChildren("a")
	if err != nil || len(children) != 1 || children[0].Path != "a/b" {
		t.Fatalf("children = %+v, err = %v", children, err)
	}

	ancestors, err := api.GetAncestors("a/b/c")
	if err != nil {
		t.Fatalf("GetAncestors: %v", err)
	}
	if len(ancestors) != 3 || ancestors[0].Path != "a" || ancestors[2].Path != "a/b/c" {
		t.Fatalf("ancestors = %+v", ancestors)
	}
}

func TestRecordAccessPropagatesToAncestorsOnly(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "a")
	mustCreate(t, api, "a/b")

	if _, err := api.GetNote("a/b"); err != nil {
		t.Fatalf("GetNote: %v", err)
	}

	childRow, _, _ := api.db.GetByPath("a/b")
	parentRow, _, _ := api.db.GetByPath("a")

	if childRow.DirectAccessCount != 1 {
		t.Fatalf("child direct access = %d, want 1", childRow.DirectAccessCount)
	}
	if parentRow.DirectAccessCount != 0 {
		t.Fatalf("parent direct access = %d, want 0", parentRow.DirectAccessCount)
	}
	if parentRow.AccessCount != 1 {
		t.Fatalf("parent access_count = %d, want 1", parentRow.AccessCount)
	}
}

func TestRescanPurgesDeletedFiles(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "note")

	// external deletion bypassing the API
	if err := api.fs.DeleteNote("note"); err != nil {
		t.Fatalf("direct delete: %v", err)
	}

	if err := api.Rescan(); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if ok, _ := api.NoteExists("note"); ok {
		t.Fatalf("stale row should have been purged")
	}
}

func TestFuzzySearchRanksPrefixFirst(t *testing.T) {
	api := newTestAPI(t)
	mustCreate(t, api, "my-project")
	mustCreate(t, api, "projects")

	results, err := api.FuzzySearch("project", 10, RankingFrecency)
	if err != nil {
		t.Fatalf("FuzzySearch: %v", err)
	}
	if len(results) != 2 || results[0].Path != "projects" {
		t.Fatalf("results = %+v", results)
	}
}

func mustCreate(t *testing.T, api *API, path string) {
	t.Helper()
	if _, err := api.CreateNote(path); err != nil {
		t.Fatalf("CreateNote(%q): %v", path, err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
