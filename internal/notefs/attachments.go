package notefs

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

const attachmentsDirName = "_attachments"

// attachmentRefPattern matches markdown image references that point into a
// note's _attachments directory, with or without a leading "./".
var attachmentRefPattern = regexp.MustCompile(`!\[[^\]]*\]\(\.?/?` + attachmentsDirName + `/([^)\s]+)\)`)

// referencedAttachments returns the set of attachment filenames referenced
// anywhere in content.
func referencedAttachments(content string) map[string]bool {
	refs := map[string]bool{}
	for _, m := range attachmentRefPattern.FindAllStringSubmatch(content, -1) {
		refs[m[1]] = true
	}
	return refs
}

// CleanupUnusedAttachments removes files under path's _attachments
// directory that are no longer referenced by content. It is never invoked
// implicitly by a write; callers decide when to run it.
func (fs *NoteFilesystem) CleanupUnusedAttachments(path, content string) error {
	dir := filepath.Join(fs.root, path, attachmentsDirName)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return zinerr.Iof(path, err)
	}

	referenced := referencedAttachments(content)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if referenced[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return zinerr.Iof(path, err)
		}
	}
	return nil
}

// sanitizeAttachmentName strips path separators so an attachment filename
// can never escape its note's _attachments directory.
func sanitizeAttachmentName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	return name
}
