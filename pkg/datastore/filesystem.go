package datastore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/rs/zerolog"
)

// Store is the file-backed DataStore.
//
// mu guards entries and version. writeMu serializes durable writes so that a
// snapshot is never overwritten by an older one.
type Store struct {
	fs     types.FS
	path   string
	logger zerolog.Logger

	mu      sync.Mutex
	entries map[string]types.LinkRecord
	version uint64

	writeMu sync.Mutex
	written uint64
}

var _ DataStore = (*Store)(nil)

// New creates an empty Store persisted at stateFile.
func New(fs types.FS, stateFile string) *Store {
	return &Store{
		fs:      fs,
		path:    stateFile,
		logger:  logging.GetLogger("datastore"),
		entries: make(map[string]types.LinkRecord),
	}
}

// Path returns the durable file location.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory mapping with the durable copy. A missing file
// loads as empty without error; an unreadable or unparsable file also loads
// as empty and the cause is returned for logging.
func (s *Store) Load() error {
	entries, err := s.read()

	s.mu.Lock()
	s.entries = entries
	s.version++
	s.mu.Unlock()

	s.writeMu.Lock()
	s.written = s.version
	s.writeMu.Unlock()

	s.logger.Debug().Int("entries", len(entries)).Str("path", s.path).Msg("State loaded")
	return err
}

func (s *Store) read() (map[string]types.LinkRecord, error) {
	empty := make(map[string]types.LinkRecord)

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return empty, errors.Wrapf(err, errors.ErrStateLoad, "failed to read state file").
			WithDetail("path", s.path)
	}

	var decoded map[string]types.LinkRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		return empty, errors.Wrapf(err, errors.ErrStateLoad, "failed to parse state file").
			WithDetail("path", s.path)
	}

	entries := make(map[string]types.LinkRecord, len(decoded))
	for name, record := range decoded {
		if name == "" || record.OriginalPath == "" {
			continue
		}
		record.SymlinkName = name
		record.Timestamp = record.Timestamp.UTC()
		entries[name] = record
	}
	return entries, nil
}

func (s *Store) Get(symlinkName string) (types.LinkRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.entries[symlinkName]
	return record, ok
}

func (s *Store) Set(record types.LinkRecord) error {
	record.Timestamp = record.Timestamp.UTC()

	s.mu.Lock()
	s.entries[record.SymlinkName] = record
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()

	return s.persist(snapshot, version)
}

func (s *Store) Remove(symlinkName string) error {
	s.mu.Lock()
	if _, ok := s.entries[symlinkName]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.entries, symlinkName)
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()

	return s.persist(snapshot, version)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	s.entries = make(map[string]types.LinkRecord)
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()

	return s.persist(snapshot, version)
}

func (s *Store) AllEntries() map[string]types.LinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.entries)
}

func (s *Store) SortedByAge() []types.NamedRecord {
	s.mu.Lock()
	sorted := make([]types.NamedRecord, 0, len(s.entries))
	for name, record := range s.entries {
		sorted = append(sorted, types.NamedRecord{Name: name, Record: record})
	}
	s.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Record.Timestamp, sorted[j].Record.Timestamp
		if ti.Equal(tj) {
			return sorted[i].Name < sorted[j].Name
		}
		return ti.Before(tj)
	})
	return sorted
}

// FindByOriginalPath scans every record; the set is bounded by retention.
func (s *Store) FindByOriginalPath(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, record := range s.entries {
		if record.OriginalPath == path {
			return name, true
		}
	}
	return "", false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Flush writes the current mapping if a previous write failed or was skipped.
func (s *Store) Flush() error {
	s.mu.Lock()
	snapshot, version := copyEntries(s.entries), s.version
	s.mu.Unlock()
	return s.persist(snapshot, version)
}

// Wait blocks until any in-flight durable write has completed.
func (s *Store) Wait() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
}

func (s *Store) snapshotLocked() (map[string]types.LinkRecord, uint64) {
	s.version++
	return copyEntries(s.entries), s.version
}

func (s *Store) persist(snapshot map[string]types.LinkRecord, version uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if version <= s.written {
		return nil
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to encode state")
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create state directory").
			WithDetail("path", filepath.Dir(s.path))
	}
	if err := filesystem.WriteFileAtomic(s.fs, s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to write state file").
			WithDetail("path", s.path)
	}
	s.written = version
	return nil
}

func copyEntries(entries map[string]types.LinkRecord) map[string]types.LinkRecord {
	out := make(map[string]types.LinkRecord, len(entries))
	for name, record := range entries {
		out[name] = record
	}
	return out
}
