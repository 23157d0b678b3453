package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/recent-work/pkg/errors"
)

// Environment variable names
const (
	EnvConfigFile = "RECENT_WORK_CONFIG"
	EnvConfigDir  = "RECENT_WORK_CONFIG_DIR"
	EnvLogDir     = "RECENT_WORK_LOG_DIR"
	EnvAgentsDir  = "RECENT_WORK_AGENTS_DIR"
)

// Fixed names. These define the on-disk layout and are not user-configurable.
const (
	AppName          = "recent-work"
	DefaultOutputDir = "~/RecentWork"
	StateDirName     = ".recent-work"
	StateFileName    = "state.json"
	ConfigFileName   = "config.toml"
	LogFileName      = "recent-work.log"
	LaunchdLabel     = "com.recentwork.daemon"
)

// Paths resolves every location recent-work reads or writes.
type Paths interface {
	OutputDir() string
	StateDir() string
	StateFile() string
	ConfigFile() string
	LogDir() string
	LogFile() string
	LaunchdPlist() string
	IsInOutputDir(path string) bool
}

type paths struct {
	outputDir string
}

// New creates a Paths instance rooted at outputDir. An empty outputDir uses
// DefaultOutputDir. The result is always absolute.
func New(outputDir string) (Paths, error) {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = DefaultOutputDir
	}
	abs, err := filepath.Abs(ExpandHome(outputDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for output directory")
	}
	return &paths{outputDir: filepath.Clean(abs)}, nil
}

func (p *paths) OutputDir() string {
	return p.outputDir
}

func (p *paths) StateDir() string {
	return filepath.Join(p.outputDir, StateDirName)
}

func (p *paths) StateFile() string {
	return filepath.Join(p.StateDir(), StateFileName)
}

func (p *paths) ConfigFile() string {
	return ConfigFilePath()
}

func (p *paths) LogDir() string {
	return LogDir()
}

func (p *paths) LogFile() string {
	return filepath.Join(LogDir(), LogFileName)
}

func (p *paths) LaunchdPlist() string {
	return LaunchdPlistPath()
}

// IsInOutputDir reports whether path is the output directory or inside it.
func (p *paths) IsInOutputDir(path string) bool {
	return IsWithin(p.outputDir, path)
}

// ConfigFilePath returns the user config file location.
func ConfigFilePath() string {
	if file := os.Getenv(EnvConfigFile); file != "" {
		return ExpandHome(file)
	}
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(ExpandHome(dir), ConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// LogDir returns the directory holding the service log file.
func LogDir() string {
	if dir := os.Getenv(EnvLogDir); dir != "" {
		return ExpandHome(dir)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir(), "Library", "Logs", AppName)
	}
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, AppName)
	}
	return filepath.Join(homeDir(), ".local", "state", AppName)
}

// LaunchdPlistPath returns the per-user launchd agent descriptor path.
func LaunchdPlistPath() string {
	dir := os.Getenv(EnvAgentsDir)
	if dir == "" {
		dir = filepath.Join(homeDir(), "Library", "LaunchAgents")
	}
	return filepath.Join(ExpandHome(dir), LaunchdLabel+".plist")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// ContractHome replaces the home directory prefix with ~ for display.
func ContractHome(path string) string {
	home := homeDir()
	if home == "" || home == "/" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

// IsWithin reports whether path equals dir or lies underneath it.
func IsWithin(dir, path string) bool {
	dir = filepath.Clean(dir)
	path = filepath.Clean(path)
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Home returns the user's home directory.
func Home() string {
	return homeDir()
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
