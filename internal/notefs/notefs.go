// Package notefs is the pure filesystem layer under a notes tree: every
// note is a directory containing an _index.md file and an optional
// _attachments subdirectory. Paths are slash-separated and relative to the
// tree root; the empty path is the root note itself.
package notefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/korbindeman/zinnia/internal/zinerr"
)

const (
	indexFileName  = "_index.md"
	backupsDirName = "_backups"
	trashDirName   = ".trash"
)

// Metadata describes a note as seen on disk.
type Metadata struct {
	Path  string
	MTime time.Time
}

// NoteFilesystem performs directory-tree I/O for a notes root.
type NoteFilesystem struct {
	root string
}

// New creates the root directory if needed and returns a NoteFilesystem
// rooted there.
func New(root string) (*NoteFilesystem, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, zinerr.Iof(root, err)
	}
	return &NoteFilesystem{root: root}, nil
}

// Root returns the filesystem root path.
func (fs *NoteFilesystem) Root() string {
	return fs.root
}

func (fs *NoteFilesystem) notePath(path string) string {
	if path == "" {
		return filepath.Join(fs.root, indexFileName)
	}
	return filepath.Join(fs.root, path, indexFileName)
}

// StatNote returns the modification time of the note at path.
func (fs *NoteFilesystem) StatNote(path string) (time.Time, error) {
	info, err := os.Stat(fs.notePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, zinerr.NotFoundf(path)
		}
		return time.Time{}, zinerr.Iof(path, err)
	}
	return info.ModTime(), nil
}

// ReadNote returns the markdown content of the note at path.
func (fs *NoteFilesystem) ReadNote(path string) (string, error) {
	b, err := os.ReadFile(fs.notePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", zinerr.NotFoundf(path)
		}
		return "", zinerr.Iof(path, err)
	}
	return string(b), nil
}

// WriteNote overwrites (or creates) the note's content.
func (fs *NoteFilesystem) WriteNote(path, content string) error {
	fsPath := fs.notePath(path)
	if err := os.MkdirAll(filepath.Dir(fsPath), 0o755); err != nil {
		return zinerr.Iof(path, err)
	}
	if err := os.WriteFile(fsPath, []byte(content), 0o644); err != nil {
		return zinerr.Iof(path, err)
	}
	return nil
}

// CreateNote creates an empty note at path, failing if it already exists.
func (fs *NoteFilesystem) CreateNote(path string) error {
	fsPath := fs.notePath(path)
	if _, err := os.Stat(fsPath); err == nil {
		return zinerr.AlreadyExistsf(path)
	} else if !os.IsNotExist(err) {
		return zinerr.Iof(path, err)
	}
	if err := os.MkdirAll(filepath.Dir(fsPath), 0o755); err != nil {
		return zinerr.Iof(path, err)
	}
	if err := os.WriteFile(fsPath, []byte(""), 0o644); err != nil {
		return zinerr.Iof(path, err)
	}
	return nil
}

// DeleteNote permanently removes the note directory and everything under it.
func (fs *NoteFilesystem) DeleteNote(path string) error {
	dir := filepath.Join(fs.root, path)
	if err := os.RemoveAll(dir); err != nil {
		return zinerr.Iof(path, err)
	}
	return nil
}

// TrashNote moves the note directory to a reserved local trash area rather
// than deleting it outright. There is no third-party OS-trash integration
// available, so this is a same-filesystem rename fallback.
func (fs *NoteFilesystem) TrashNote(path string) error {
	dir := filepath.Join(fs.root, path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return zinerr.NotFoundf(path)
	} else if err != nil {
		return zinerr.Iof(path, err)
	}

	trashRoot := filepath.Join(fs.root, trashDirName)
	if err := os.MkdirAll(trashRoot, 0o755); err != nil {
		return zinerr.Iof(path, err)
	}

	name := path
	if name == "" {
		name = "root"
	}
	dest := filepath.Join(trashRoot, fmt.Sprintf("%s-%d", strings.ReplaceAll(name, "/", "_"), time.Now().UnixNano()))
	if err := os.Rename(dir, dest); err != nil {
		return zinerr.Iof(path, err)
	}
	return nil
}

// ScanAll walks the whole tree and returns metadata for every note found,
// skipping the reserved _backups directory.
func (fs *NoteFilesystem) ScanAll() ([]Metadata, error) {
	var notes []Metadata
	if err := scanDir(fs.root, "", &notes); err != nil {
		return nil, zinerr.Iof("", err)
	}
	return notes, nil
}

func scanDir(dir, prefix string, notes *[]Metadata) error {
	indexPath := filepath.Join(dir, indexFileName)
	if info, err := os.Stat(indexPath); err == nil {
		*notes = append(*notes, Metadata{Path: prefix, MTime: info.ModTime()})
	} else if !os.IsNotExist(err) {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == backupsDirName || name == trashDirName {
			continue
		}
		newPrefix := name
		if prefix != "" {
			newPrefix = prefix + "/" + name
		}
		if err := scanDir(filepath.Join(dir, name), newPrefix, notes); err != nil {
			return err
		}
	}
	return nil
}

// GetAncestors returns the chain of paths from the topmost ancestor down to
// and including path itself. For the root note it returns [""].
func GetAncestors(path string) []string {
	ancestors := []string{path}
	current := path
	for {
		parent, ok := ParentPath(current)
		if !ok {
			break
		}
		ancestors = append(ancestors, parent)
		current = parent
	}
	// reverse in place
	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
		ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}
	return ancestors
}

// ParentPath returns the parent of path and true, or ("", false) if path
// has no parent (the root note, or a root-level note).
func ParentPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", false
	}
	return path[:idx], true
}
