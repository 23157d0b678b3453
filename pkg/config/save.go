package config

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/pelletier/go-toml/v2"
)

type fileConfig struct {
	Watch         []string      `toml:"watch"`
	OutputDir     string        `toml:"output_dir"`
	Debounce      string        `toml:"debounce"`
	PruneInterval string        `toml:"prune_interval"`
	Retention     fileRetention `toml:"retention"`
	Exclude       fileExclude   `toml:"exclude"`
}

type fileRetention struct {
	MaxFiles    int `toml:"max_files"`
	MaxAgeHours int `toml:"max_age_hours"`
}

type fileExclude struct {
	Filenames    []string `toml:"filenames"`
	Extensions   []string `toml:"extensions"`
	PathPrefixes []string `toml:"path_prefixes"`
}

// Save writes cfg as TOML. Paths under the home directory are written with ~.
func Save(path string, cfg *Config) error {
	out := fileConfig{
		Watch:         contractAll(cfg.Watch),
		OutputDir:     paths.ContractHome(cfg.OutputDir),
		Debounce:      cfg.Debounce.String(),
		PruneInterval: cfg.PruneInterval.String(),
		Retention: fileRetention{
			MaxFiles:    cfg.Retention.MaxFiles,
			MaxAgeHours: cfg.Retention.MaxAgeHours,
		},
		Exclude: fileExclude{
			Filenames:    nonNil(cfg.Exclude.Filenames),
			Extensions:   nonNil(cfg.Exclude.Extensions),
			PathPrefixes: nonNil(cfg.Exclude.PathPrefixes),
		},
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "failed to encode configuration")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create config directory")
	}
	if err := filesystem.WriteFileAtomic(filesystem.NewOS(), path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to write config file %s", path)
	}
	return nil
}

func contractAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, paths.ContractHome(item))
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
