package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/arthur-debert/recent-work/pkg/types"
)

var tmpCounter atomic.Uint64

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path. Readers of path see either the previous content or the new
// content, never a partial write. The temporary file is removed on failure.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmpName := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), tmpCounter.Add(1)))

	committed := false
	defer func() {
		if !committed {
			_ = fsys.Remove(tmpName)
		}
	}()

	if err := fsys.WriteFile(tmpName, data, perm); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true
	return nil
}

// Exists reports whether name resolves to an existing entry, following symlinks.
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// EntryExists reports whether an entry exists at name without following
// symlinks, so a dangling symlink still counts.
func EntryExists(fsys types.FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}
