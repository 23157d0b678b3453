// Package symlinks creates, refreshes and removes the links in the output
// directory, writing every change through the datastore.
package symlinks

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/recent-work/pkg/datastore"
	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/naming"
	"github.com/arthur-debert/recent-work/pkg/rules"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Manager.
type Options struct {
	FS        types.FS
	OutputDir string
	Store     datastore.DataStore
	Filter    *rules.Filter
	Clock     types.Clock
}

// Manager owns the symlinks in one output directory.
//
// mu serializes Track calls so two sources resolving to the same name cannot
// both claim it.
type Manager struct {
	fs        types.FS
	outputDir string
	store     datastore.DataStore
	resolver  *naming.Resolver
	filter    *rules.Filter
	clock     types.Clock
	logger    zerolog.Logger

	mu sync.Mutex
}

// NewManager creates a Manager.
func NewManager(opts Options) *Manager {
	filter := opts.Filter
	if filter == nil {
		filter = rules.NewFilter(rules.Options{})
	}
	return &Manager{
		fs:        opts.FS,
		outputDir: opts.OutputDir,
		store:     opts.Store,
		resolver:  naming.NewResolver(opts.FS, opts.OutputDir, opts.Store),
		filter:    filter,
		clock:     opts.Clock,
		logger:    logging.GetLogger("symlinks"),
	}
}

// Track links source into the output directory and returns the symlink name.
// It reports false when nothing was tracked: the source is gone, excluded, or
// the link could not be created. A source that is already tracked only has
// its timestamp refreshed.
func (m *Manager) Track(source string) (string, bool) {
	filename := filepath.Base(source)
	if m.filter.SkipFilename(filename) {
		m.logger.Trace().Str("path", source).Msg("Skipping excluded file")
		return "", false
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		m.logger.Debug().Err(err).Str("path", source).Msg("Cannot resolve source path")
		return "", false
	}

	info, err := m.fs.Stat(abs)
	if err != nil {
		m.logger.Debug().Str("path", abs).Msg("Source file no longer exists")
		return "", false
	}
	if info.IsDir() {
		return "", false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()

	if existing, ok := m.store.FindByOriginalPath(abs); ok {
		m.commit(types.LinkRecord{OriginalPath: abs, Timestamp: now, SymlinkName: existing})
		m.logger.Debug().Str("name", existing).Msg("Updated timestamp for existing symlink")
		return existing, true
	}

	name := m.resolver.Resolve(abs)
	linkPath := filepath.Join(m.outputDir, name)

	if filesystem.EntryExists(m.fs, linkPath) {
		if err := RemoveLink(m.fs, linkPath); err != nil {
			m.logger.Warn().Err(err).Str("name", name).Msg("Cannot replace entry occupying symlink name")
			return "", false
		}
	}
	if err := m.store.Remove(name); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist state")
	}

	if err := m.fs.Symlink(abs, linkPath); err != nil {
		m.logger.Error().
			Err(errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink")).
			Str("name", name).
			Str("target", abs).
			Msg("Failed to create symlink")
		return "", false
	}

	m.commit(types.LinkRecord{OriginalPath: abs, Timestamp: now, SymlinkName: name})
	m.logger.Info().Str("name", name).Str("target", abs).Msg("Created symlink")
	return name, true
}

func (m *Manager) commit(record types.LinkRecord) {
	if err := m.store.Set(record); err != nil {
		m.logger.Warn().Err(err).Str("name", record.SymlinkName).Msg("Failed to persist state")
	}
}

// Remove deletes one tracked symlink and its record.
func (m *Manager) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(name)
}

func (m *Manager) removeLocked(name string) {
	if err := RemoveLink(m.fs, filepath.Join(m.outputDir, name)); err != nil {
		m.logger.Warn().Err(err).Str("name", name).Msg("Failed to remove symlink")
	}
	if err := m.store.Remove(name); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist state")
	}
}

// RemoveAll deletes every tracked symlink and clears the store. It returns
// the number of records that were tracked.
func (m *Manager) RemoveAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.store.AllEntries()
	for name := range entries {
		if err := RemoveLink(m.fs, filepath.Join(m.outputDir, name)); err != nil {
			m.logger.Warn().Err(err).Str("name", name).Msg("Failed to remove symlink")
		}
	}
	if err := m.store.Clear(); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist state")
	}
	m.logger.Info().Int("count", len(entries)).Msg("Cleared all symlinks")
	return len(entries)
}

// List returns the tracked links, newest first.
func (m *Manager) List() []types.LinkStatus {
	return Statuses(m.fs, m.store)
}

// Statuses builds the listing view of a store, newest first. Broken means the
// target no longer resolves.
func Statuses(fsys types.FS, store datastore.DataStore) []types.LinkStatus {
	sorted := store.SortedByAge()
	statuses := make([]types.LinkStatus, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		entry := sorted[i]
		statuses = append(statuses, types.LinkStatus{
			Name:      entry.Name,
			Target:    entry.Record.OriginalPath,
			Timestamp: entry.Record.Timestamp,
			Broken:    !filesystem.Exists(fsys, entry.Record.OriginalPath),
		})
	}
	return statuses
}

// RemoveLink deletes the symlink at path. A missing entry is not an error.
// Anything other than a symlink is left in place and reported, so a user's
// own file in the output directory is never deleted.
func RemoveLink(fsys types.FS, path string) error {
	info, err := fsys.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "failed to inspect %s", path)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return errors.Newf(errors.ErrSymlinkRemove, "refusing to remove non-symlink %s", path)
	}
	if err := fsys.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "failed to remove %s", path)
	}
	return nil
}
