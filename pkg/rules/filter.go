package rules

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/recent-work/pkg/paths"
)

// Filter applies the exclusion rules.
type Filter struct {
	filenames    map[string]struct{}
	extensions   map[string]struct{}
	patterns     []string
	pathPrefixes []string
}

// Options extends the built-in rules. Filenames containing glob
// metacharacters are treated as patterns. Path prefixes may start with ~
// and are added to DefaultSkippedPathPrefixes.
type Options struct {
	Filenames    []string
	Extensions   []string
	PathPrefixes []string
}

// NewFilter builds a Filter from the built-in rules plus opts.
func NewFilter(opts Options) *Filter {
	f := &Filter{
		filenames:  make(map[string]struct{}),
		extensions: make(map[string]struct{}),
		patterns:   append([]string{}, DefaultSkippedPatterns...),
	}

	names := append(append([]string{}, DefaultSkippedFilenames...), opts.Filenames...)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.ContainsAny(name, "*?[") {
			f.patterns = append(f.patterns, name)
			continue
		}
		f.filenames[name] = struct{}{}
	}

	exts := append(append([]string{}, DefaultSkippedExtensions...), opts.Extensions...)
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			f.extensions[ext] = struct{}{}
		}
	}

	prefixes := append(append([]string{}, DefaultSkippedPathPrefixes...), opts.PathPrefixes...)
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		f.pathPrefixes = append(f.pathPrefixes, filepath.Clean(paths.ExpandHome(prefix)))
	}
	return f
}

// SkipFilename reports whether a basename is excluded.
func (f *Filter) SkipFilename(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return true
	}
	if _, ok := f.filenames[name]; ok {
		return true
	}
	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := f.extensions[ext]
	return ok
}

// SkipPath reports whether an absolute path lies under a hidden directory or
// a configured prefix, or has an excluded basename.
func (f *Filter) SkipPath(path string) bool {
	clean := filepath.Clean(path)
	for _, component := range strings.Split(clean, string(filepath.Separator)) {
		if strings.HasPrefix(component, ".") {
			return true
		}
	}
	for _, prefix := range f.pathPrefixes {
		if paths.IsWithin(prefix, clean) {
			return true
		}
	}
	return f.SkipFilename(filepath.Base(clean))
}
