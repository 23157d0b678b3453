package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	home := setHome(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Watch)
	assert.Equal(t, filepath.Join(home, "RecentWork"), cfg.OutputDir)
	assert.Equal(t, 100, cfg.Retention.MaxFiles)
	assert.Equal(t, 48, cfg.Retention.MaxAgeHours)
	assert.Equal(t, 48*time.Hour, cfg.Retention.MaxAge())
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, time.Minute, cfg.PruneInterval)
	assert.Empty(t, cfg.Exclude.PathPrefixes)
}

func TestLoadFile_UserFileOverridesDefaults(t *testing.T) {
	home := setHome(t)
	path := writeConfig(t, `
watch = ["~/work", "/srv/notes"]
output_dir = "~/Links"
debounce = "500ms"

[retention]
max_files = 25

[exclude]
extensions = ["psd"]
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(home, "work"), "/srv/notes"}, cfg.Watch)
	assert.Equal(t, filepath.Join(home, "Links"), cfg.OutputDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 25, cfg.Retention.MaxFiles)
	assert.Equal(t, 48, cfg.Retention.MaxAgeHours, "unset keys keep their defaults")
	assert.Equal(t, []string{"psd"}, cfg.Exclude.Extensions)
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	setHome(t)
	t.Setenv("RECENT_WORK_RETENTION_MAX_FILES", "7")
	t.Setenv("RECENT_WORK_PRUNE_INTERVAL", "5m")
	t.Setenv("RECENT_WORK_WATCH", "/a,/b")
	t.Setenv("RECENT_WORK_UNKNOWN_KEY", "ignored")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Retention.MaxFiles)
	assert.Equal(t, 5*time.Minute, cfg.PruneInterval)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Watch)
}

func TestLoadFile_Errors(t *testing.T) {
	setHome(t)

	t.Run("malformed toml", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "watch = [unterminated"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "[retention]\nmax_files = 0\n"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestLoad_UsesConfigEnvVar(t *testing.T) {
	setHome(t)
	path := writeConfig(t, "[retention]\nmax_age_hours = 12\n")
	t.Setenv(paths.EnvConfigFile, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Retention.MaxAgeHours)
}

func TestValidate(t *testing.T) {
	valid := Config{
		OutputDir:     "/tmp/out",
		Debounce:      time.Second,
		PruneInterval: time.Minute,
		Retention:     Retention{MaxFiles: 1, MaxAgeHours: 1},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output dir", func(c *Config) { c.OutputDir = " " }},
		{"zero max files", func(c *Config) { c.Retention.MaxFiles = 0 }},
		{"negative max age", func(c *Config) { c.Retention.MaxAgeHours = -1 }},
		{"zero debounce", func(c *Config) { c.Debounce = 0 }},
		{"zero prune interval", func(c *Config) { c.PruneInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}
}

func TestWatchDirs(t *testing.T) {
	home := setHome(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "Documents"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "Code"), 0755))

	t.Run("detects candidates", func(t *testing.T) {
		detected := DetectWatchDirs()
		require.Len(t, detected, len(CandidateWatchDirs))
		assert.Equal(t, WatchDir{Path: filepath.Join(home, "Documents"), Exists: true}, detected[0])
		assert.Equal(t, WatchDir{Path: filepath.Join(home, "Desktop"), Exists: false}, detected[1])
	})

	t.Run("falls back to existing candidates", func(t *testing.T) {
		cfg := &Config{}
		assert.Equal(t, []string{
			filepath.Join(home, "Documents"),
			filepath.Join(home, "Code"),
		}, cfg.ExistingWatchDirs())
	})

	t.Run("configured directories win", func(t *testing.T) {
		cfg := &Config{Watch: []string{filepath.Join(home, "Code"), filepath.Join(home, "missing")}}
		dirs := cfg.WatchDirs()
		require.Len(t, dirs, 2)
		assert.True(t, dirs[0].Exists)
		assert.False(t, dirs[1].Exists)
		assert.Equal(t, []string{filepath.Join(home, "Code")}, cfg.ExistingWatchDirs())
	})
}

func TestSaveRoundTrip(t *testing.T) {
	home := setHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := &Config{
		Watch:         []string{filepath.Join(home, "Projects")},
		OutputDir:     filepath.Join(home, "RecentWork"),
		Debounce:      3 * time.Second,
		PruneInterval: 2 * time.Minute,
		Retention:     Retention{MaxFiles: 50, MaxAgeHours: 24},
		Exclude:       Exclude{Extensions: []string{"psd"}},
	}
	require.NoError(t, Save(path, cfg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "~/Projects")
	assert.Contains(t, string(content), "3s")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Watch, loaded.Watch)
	assert.Equal(t, cfg.OutputDir, loaded.OutputDir)
	assert.Equal(t, cfg.Debounce, loaded.Debounce)
	assert.Equal(t, cfg.PruneInterval, loaded.PruneInterval)
	assert.Equal(t, cfg.Retention, loaded.Retention)
	assert.Equal(t, []string{"psd"}, loaded.Exclude.Extensions)
	assert.Empty(t, loaded.Exclude.PathPrefixes)
}

func TestDefaultContentParses(t *testing.T) {
	assert.Contains(t, string(DefaultContent()), "max_files = 100")
}

func TestLoadFile_ConfiguredPrefixesKeepBuiltIns(t *testing.T) {
	home := setHome(t)
	path := writeConfig(t, `
[exclude]
path_prefixes = ["/srv/cache"]
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/cache"}, cfg.Exclude.PathPrefixes)

	filter := rules.NewFilter(cfg.FilterOptions())
	assert.True(t, filter.SkipPath("/srv/cache/blob.txt"))
	assert.True(t, filter.SkipPath(filepath.Join(home, "Library", "Mobile Documents", "notes.txt")))
	assert.True(t, filter.SkipPath(filepath.Join(home, ".Trash", "notes.txt")))
	assert.False(t, filter.SkipPath(filepath.Join(home, "Documents", "notes.txt")))
}
