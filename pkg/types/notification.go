package types

// ChangeKind classifies a raw filesystem notification.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota + 1
	ChangeModified
	ChangeRenamed
	ChangeRemoved
)

// String returns the lowercase name of the change kind
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeModified:
		return "modified"
	case ChangeRenamed:
		return "renamed"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Notification is a single raw change reported by a notification source.
type Notification struct {
	Path        string
	Kind        ChangeKind
	IsDirectory bool
}

// Trackable reports whether the notification may enter the debounce stage:
// a create, modify or rename of a non-directory.
func (n Notification) Trackable() bool {
	if n.IsDirectory {
		return false
	}
	switch n.Kind {
	case ChangeCreated, ChangeModified, ChangeRenamed:
		return true
	default:
		return false
	}
}
