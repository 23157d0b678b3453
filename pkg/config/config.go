package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/rules"
)

// Config is the resolved runtime configuration. Paths are expanded.
type Config struct {
	Watch         []string      `koanf:"watch"`
	OutputDir     string        `koanf:"output_dir"`
	Debounce      time.Duration `koanf:"debounce"`
	PruneInterval time.Duration `koanf:"prune_interval"`
	Retention     Retention     `koanf:"retention"`
	Exclude       Exclude       `koanf:"exclude"`
}

// Retention bounds how many links are kept and for how long.
type Retention struct {
	MaxFiles    int `koanf:"max_files"`
	MaxAgeHours int `koanf:"max_age_hours"`
}

// MaxAge returns MaxAgeHours as a duration.
func (r Retention) MaxAge() time.Duration {
	return time.Duration(r.MaxAgeHours) * time.Hour
}

// Exclude extends the built-in skip rules.
type Exclude struct {
	Filenames    []string `koanf:"filenames"`
	Extensions   []string `koanf:"extensions"`
	PathPrefixes []string `koanf:"path_prefixes"`
}

// CandidateWatchDirs are watched when no directories are configured.
var CandidateWatchDirs = []string{
	"~/Documents",
	"~/Desktop",
	"~/Downloads",
	"~/Projects",
	"~/Developer",
	"~/repos",
	"~/Code",
	"~/src",
}

// WatchDir is a candidate directory and whether it exists.
type WatchDir struct {
	Path   string
	Exists bool
}

// DetectWatchDirs checks every candidate directory.
func DetectWatchDirs() []WatchDir {
	return statDirs(CandidateWatchDirs)
}

// WatchDirs returns the configured directories with their existence, or the
// existing candidates when none are configured.
func (c *Config) WatchDirs() []WatchDir {
	if len(c.Watch) > 0 {
		return statDirs(c.Watch)
	}
	var found []WatchDir
	for _, dir := range DetectWatchDirs() {
		if dir.Exists {
			found = append(found, dir)
		}
	}
	return found
}

// ExistingWatchDirs returns only the watch directories present on disk.
func (c *Config) ExistingWatchDirs() []string {
	var dirs []string
	for _, dir := range c.WatchDirs() {
		if dir.Exists {
			dirs = append(dirs, dir.Path)
		}
	}
	return dirs
}

func statDirs(candidates []string) []WatchDir {
	dirs := make([]WatchDir, 0, len(candidates))
	for _, candidate := range candidates {
		path := filepath.Clean(paths.ExpandHome(candidate))
		info, err := os.Stat(path)
		dirs = append(dirs, WatchDir{Path: path, Exists: err == nil && info.IsDir()})
	}
	return dirs
}

// FilterOptions converts the exclusions for the rules package.
func (c *Config) FilterOptions() rules.Options {
	return rules.Options{
		Filenames:    c.Exclude.Filenames,
		Extensions:   c.Exclude.Extensions,
		PathPrefixes: c.Exclude.PathPrefixes,
	}
}

// Validate checks the limits and intervals are usable.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.OutputDir) == "" {
		problems = append(problems, "output_dir must not be empty")
	}
	if c.Retention.MaxFiles <= 0 {
		problems = append(problems, "retention.max_files must be positive")
	}
	if c.Retention.MaxAgeHours <= 0 {
		problems = append(problems, "retention.max_age_hours must be positive")
	}
	if c.Debounce <= 0 {
		problems = append(problems, "debounce must be positive")
	}
	if c.PruneInterval <= 0 {
		problems = append(problems, "prune_interval must be positive")
	}
	if len(problems) > 0 {
		return errors.Newf(errors.ErrConfigValid, "invalid configuration: %s", strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return nil
}

func (c *Config) expand() {
	c.OutputDir = filepath.Clean(paths.ExpandHome(strings.TrimSpace(c.OutputDir)))
	watch := make([]string, 0, len(c.Watch))
	for _, dir := range c.Watch {
		if dir = strings.TrimSpace(dir); dir != "" {
			watch = append(watch, filepath.Clean(paths.ExpandHome(dir)))
		}
	}
	c.Watch = watch
}
