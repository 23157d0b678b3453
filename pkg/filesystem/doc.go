// Package filesystem provides filesystem implementations for recent-work.
//
// This package contains the OS implementation of the types.FS interface and
// an atomic-replace write helper built on top of it.
package filesystem
