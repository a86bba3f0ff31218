package notefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

// IsCaseOnlyRename reports whether oldPath and newPath differ only in case.
func IsCaseOnlyRename(oldPath, newPath string) bool {
	return oldPath != newPath && strings.EqualFold(oldPath, newPath)
}

// MoveNote moves the directory for oldPath (and everything under it) to
// newPath. For a same-name-different-case rename on a case-insensitive
// filesystem, it routes through a uniquely named temporary directory first
// so the OS doesn't treat the move as a no-op.
func (fs *NoteFilesystem) MoveNote(oldPath, newPath string) error {
	oldDir := fmt.Sprintf("%s/%s", fs.root, oldPath)
	newDir := fmt.Sprintf("%s/%s", fs.root, newPath)

	if IsCaseOnlyRename(oldPath, newPath) {
		tempDir := fmt.Sprintf("%s_temp_%d", oldDir, time.Now().UnixNano())
		if err := os.Rename(oldDir, tempDir); err != nil {
			return zinerr.Iof(oldPath, err)
		}
		if err := os.MkdirAll(filepath.Dir(newDir), 0o755); err != nil {
			return zinerr.Iof(newPath, err)
		}
		if err := os.Rename(tempDir, newDir); err != nil {
			return zinerr.Iof(newPath, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(newDir), 0o755); err != nil {
		return zinerr.Iof(newPath, err)
	}
	if err := os.Rename(oldDir, newDir); err != nil {
		return zinerr.Iof(oldPath, err)
	}
	return nil
}
