// Package paths provides centralized path handling for recent-work.
//
// It resolves where the tool keeps its files:
//
//   - Output directory: the flat folder of symlinks (default ~/RecentWork)
//   - State directory: <output>/.recent-work, holding state.json
//   - Config file: $XDG_CONFIG_HOME/recent-work/config.toml
//   - Log directory: ~/Library/Logs/recent-work on macOS,
//     $XDG_STATE_HOME/recent-work elsewhere
//   - Service descriptor: ~/Library/LaunchAgents/com.recentwork.daemon.plist
//
// # Environment Variables
//
//   - RECENT_WORK_CONFIG: explicit config file path
//   - RECENT_WORK_CONFIG_DIR: override the config directory
//   - RECENT_WORK_LOG_DIR: override the log directory
//   - RECENT_WORK_AGENTS_DIR: override the LaunchAgents directory
package paths
