// Package types holds the shared data types and small interfaces used across
// recent-work: link records, change notifications and the filesystem seam.
package types
