package datastore

import (
	"io/fs"
	"os"
	"sync/atomic"

	"github.com/arthur-debert/recent-work/pkg/types"
)

// FaultyFS wraps a types.FS and fails state writes on demand. It simulates a
// write interrupted halfway: the partial bytes reach the temporary file and
// the call errors before the rename.
type FaultyFS struct {
	types.FS
	failWrites atomic.Bool
}

// NewFaultyFS wraps inner.
func NewFaultyFS(inner types.FS) *FaultyFS {
	return &FaultyFS{FS: inner}
}

// FailWrites toggles write failures.
func (f *FaultyFS) FailWrites(fail bool) {
	f.failWrites.Store(fail)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if f.failWrites.Load() {
		_ = f.FS.WriteFile(name, data[:len(data)/2], perm)
		return &fs.PathError{Op: "write", Path: name, Err: os.ErrClosed}
	}
	return f.FS.WriteFile(name, data, perm)
}
