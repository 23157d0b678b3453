package datastore

import "github.com/arthur-debert/recent-work/pkg/types"

// DataStore is the concurrency-safe record of tracked links.
type DataStore interface {
	// Get returns the record stored under a symlink name.
	Get(symlinkName string) (types.LinkRecord, bool)

	// Set upserts a record keyed by its SymlinkName and persists the mapping.
	// The in-memory change is kept even when persisting fails.
	Set(record types.LinkRecord) error

	// Remove deletes a record and persists the mapping.
	Remove(symlinkName string) error

	// AllEntries returns a point-in-time copy of the mapping.
	AllEntries() map[string]types.LinkRecord

	// SortedByAge returns a snapshot ordered by timestamp ascending, ties by name.
	SortedByAge() []types.NamedRecord

	// FindByOriginalPath returns the symlink name already tracking path.
	FindByOriginalPath(path string) (string, bool)

	// Len returns the number of records.
	Len() int

	// Clear drops every record and persists the empty mapping.
	Clear() error
}
