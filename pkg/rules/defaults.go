package rules

// DefaultSkippedExtensions lists extensions (lowercase, without the dot) that
// are never linked.
var DefaultSkippedExtensions = []string{
	// compiled objects and binaries
	"o", "a", "dylib", "so", "class", "pyc", "pyo",
	"swiftdeps", "hmap", "modulemap", "wasm",
	"exe", "dll", "bin",
	// archives and images
	"zip", "tar", "gz", "tgz", "rar", "7z", "dmg", "iso", "pkg",
	// temporaries and backups
	"tmp", "swp", "swo", "bak", "orig", "crdownload", "part",
	// IDE and project metadata
	"pbxproj", "xcscheme", "plist", "iml",
	// logs, caches and maps
	"log", "pid", "cache", "map",
	// databases
	"sqlite", "sqlite-wal", "sqlite-shm", "db", "db-journal",
}

// DefaultSkippedFilenames lists exact basenames that are never linked.
var DefaultSkippedFilenames = []string{
	".DS_Store",
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb",
	"Podfile.lock", "Package.resolved", "Cargo.lock",
	"composer.lock", "Gemfile.lock", "poetry.lock", "flake.lock",
	"go.sum", "uv.lock",
	"output-file-map.json",
	"Thumbs.db", "desktop.ini",
}

// DefaultSkippedPathPrefixes lists directories whose contents are never
// linked. Configured prefixes are added to these.
var DefaultSkippedPathPrefixes = []string{
	"~/Library/",
	"~/.Trash/",
}

// DefaultSkippedPatterns lists glob patterns matched against the basename.
var DefaultSkippedPatterns = []string{
	"*~",
	"#*#",
}
