package types

import "time"

// LinkRecord is the persisted metadata for one tracked file.
type LinkRecord struct {
	OriginalPath string    `json:"originalPath"`
	Timestamp    time.Time `json:"timestamp"`
	SymlinkName  string    `json:"symlinkName"`
}

// NamedRecord pairs a symlink name with its record, used for ordered snapshots.
type NamedRecord struct {
	Name   string
	Record LinkRecord
}

// LinkStatus is the read-only view of a tracked link exposed to status and
// listing surfaces.
type LinkStatus struct {
	Name      string    `json:"name"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
	Broken    bool      `json:"broken"`
}

// Summary aggregates the tracked set.
type Summary struct {
	Tracked  int `json:"tracked"`
	Broken   int `json:"broken"`
	MaxFiles int `json:"maxFiles"`
}
