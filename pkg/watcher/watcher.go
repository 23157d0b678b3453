// Package watcher turns fsnotify events under a set of root directories into
// notifications.
//
// fsnotify watches are not recursive, so every directory below each root is
// registered up front and directories created later are registered as their
// create events arrive. Hidden directories and ignored trees are never
// registered.
package watcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const eventBuffer = 256

// Options configures a Watcher.
type Options struct {
	FS types.FS

	// Ignore reports whether a path, and everything below it, produces no
	// notifications. The output directory is ignored this way.
	Ignore func(path string) bool
}

// Watcher is an fsnotify-backed notification source.
type Watcher struct {
	fs     types.FS
	ignore func(string) bool
	logger zerolog.Logger
}

// New creates a Watcher.
func New(opts Options) *Watcher {
	ignore := opts.Ignore
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	return &Watcher{
		fs:     opts.FS,
		ignore: ignore,
		logger: logging.GetLogger("watcher"),
	}
}

// Subscribe starts watching dirs recursively. The returned channel is closed
// once ctx is done.
func (w *Watcher) Subscribe(ctx context.Context, dirs []string) (<-chan types.Notification, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatchStart, "failed to create file watcher")
	}

	registered := 0
	for _, dir := range dirs {
		registered += w.addTree(fsw, dir)
	}
	if registered == 0 {
		_ = fsw.Close()
		return nil, errors.New(errors.ErrWatchStart, "no directories could be watched").
			WithDetail("dirs", dirs)
	}
	w.logger.Info().Int("directories", registered).Strs("roots", dirs).Msg("Watching for changes")

	out := make(chan types.Notification, eventBuffer)
	go w.loop(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- types.Notification) {
	defer close(out)
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Debug().Err(err).Msg("Error closing file watcher")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			n, ok := w.translate(fsw, event)
			if !ok {
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) translate(fsw *fsnotify.Watcher, event fsnotify.Event) (types.Notification, bool) {
	path := filepath.Clean(event.Name)
	if w.ignore(path) {
		return types.Notification{}, false
	}

	var kind types.ChangeKind
	switch {
	case event.Has(fsnotify.Create):
		kind = types.ChangeCreated
	case event.Has(fsnotify.Write):
		kind = types.ChangeModified
	case event.Has(fsnotify.Rename):
		kind = types.ChangeRenamed
	case event.Has(fsnotify.Remove):
		kind = types.ChangeRemoved
	default:
		return types.Notification{}, false
	}

	isDir := false
	if kind != types.ChangeRemoved {
		if info, err := w.fs.Lstat(path); err == nil {
			isDir = info.IsDir()
		}
	}

	if isDir && kind == types.ChangeCreated {
		w.addTree(fsw, path)
	}

	return types.Notification{Path: path, Kind: kind, IsDirectory: isDir}, true
}

// addTree registers root and every directory below it, returning how many
// were added.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) int {
	added := 0
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(entry.Name(), ".") || w.ignore(path)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Debug().Err(err).Str("path", path).Msg("Cannot watch directory")
			return nil
		}
		added++
		return nil
	})
	if err != nil {
		w.logger.Warn().Err(err).Str("path", root).Msg("Cannot watch directory tree")
	}
	return added
}
