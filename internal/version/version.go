package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/recent-work/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/recent-work/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/recent-work/internal/version.Date={{.Date}}
)

// String renders the build information on three lines.
func String() string {
	return fmt.Sprintf("recent-work version %s\n  commit: %s\n  built:  %s\n", Version, Commit, Date)
}
