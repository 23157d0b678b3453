// Package naming decides the symlink name used for a source file.
//
// Three tiers are tried in order and the first free name wins:
//
//  1. the plain basename ("x.txt")
//  2. the parent directory name as a prefix ("b-x.txt")
//  3. a 4-hex-digit hash of the absolute source path ("x_3fa1.txt")
//
// A name is free when nothing exists at that path in the output directory
// (dangling symlinks count as existing) and no record uses it. The hash tier
// is used as is, without a collision check.
package naming

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/types"
)

// Lookup is the read access the resolver needs from the state store.
type Lookup interface {
	Get(symlinkName string) (types.LinkRecord, bool)
}

// Resolver picks symlink names inside one output directory.
type Resolver struct {
	fs        types.FS
	outputDir string
	store     Lookup
}

// NewResolver creates a Resolver for outputDir.
func NewResolver(fs types.FS, outputDir string, store Lookup) *Resolver {
	return &Resolver{fs: fs, outputDir: outputDir, store: store}
}

// Resolve returns the symlink name to use for source.
func (r *Resolver) Resolve(source string) string {
	filename := filepath.Base(source)
	if r.available(filename) {
		return filename
	}

	prefixed := PrefixedName(source)
	if r.available(prefixed) {
		return prefixed
	}

	return HashedName(source)
}

func (r *Resolver) available(name string) bool {
	if _, taken := r.store.Get(name); taken {
		return false
	}
	return !filesystem.EntryExists(r.fs, filepath.Join(r.outputDir, name))
}

// PrefixedName returns "{parentDirName}-{filename}".
func PrefixedName(source string) string {
	parent := filepath.Base(filepath.Dir(source))
	if parent == string(filepath.Separator) || parent == "." || parent == "" {
		parent = "root"
	}
	return parent + "-" + filepath.Base(source)
}

// HashedName returns "{stem}_{hash}" or "{stem}_{hash}.{ext}".
func HashedName(source string) string {
	filename := filepath.Base(source)
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	if stem == "" {
		// A name like ".txt" has no stem; keep it whole.
		stem, ext = filename, ""
	}
	return stem + "_" + ShortHash(source) + ext
}

// ShortHash renders the first two bytes of the MD5 of path as lowercase hex.
func ShortHash(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:2])
}
