// Package rules decides which files are worth linking.
//
// Filtering is static and name-based: hidden files, package-manager
// lockfiles, build products, archives, caches, IDE metadata, databases and
// editor temporaries are skipped before any filesystem I/O happens. Path
// rules additionally skip anything under a hidden directory or a configured
// prefix such as ~/Library/.
package rules
