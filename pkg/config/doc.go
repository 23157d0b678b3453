// Package config loads recent-work settings.
//
// Values are layered with koanf: the embedded defaults.toml, then the user's
// config file, then RECENT_WORK_* environment variables. The merged map is
// decoded with mapstructure, so durations may be written as "2s" and lists
// may be given as comma-separated strings in the environment.
package config
