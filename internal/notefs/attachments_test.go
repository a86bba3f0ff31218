package notefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupUnusedAttachmentsRemovesUnreferenced(t *testing.T) {
	fs := newTestFS(t)
	must(t, fs.WriteNote("note", "![alt](_attachments/keep.png)"))

	attDir := filepath.Join(fs.Root(), "note", attachmentsDirName)
	must(t, os.MkdirAll(attDir, 0o755))
	must(t, os.WriteFile(filepath.Join(attDir, "keep.png"), []byte("x"), 0o644))
	must(t, os.WriteFile(filepath.Join(attDir, "drop.png"), []byte("x"), 0o644))

	if err := fs.CleanupUnusedAttachments("note", "![alt](_attachments/keep.png)"); err != nil {
		t.Fatalf("CleanupUnusedAttachments: %v", err)
	}

	if _, err := os.Stat(filepath.Join(attDir, "keep.png")); err != nil {
		t.Errorf("keep.png should remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(attDir, "drop.png")); !os.IsNotExist(err) {
		t.Errorf("drop.png should have been removed")
	}
}

func TestCleanupUnusedAttachmentsNoDir(t *testing.T) {
	fs := newTestFS(t)
	must(t, fs.WriteNote("note", "no attachments here"))

	if err := fs.CleanupUnusedAttachments("note", "no attachments here"); err != nil {
		t.Fatalf("CleanupUnusedAttachments on missing dir: %v", err)
	}
}

func TestReferencedAttachmentsDottedPrefix(t *testing.T) {
	refs := referencedAttachments("![a](./_attachments/one.png) and ![b](_attachments/two.jpg)")
	if !refs["one.png"] || !refs["two.jpg"] {
		t.Fatalf("refs = %v", refs)
	}
}
