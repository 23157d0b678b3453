package cli

import (
	_ "embed"
	"strings"
)

// Command descriptions
const (
	MsgRootShort = "Keep a folder of symlinks to the files you touched recently"
	MsgRootLong  = `recent-work watches your working directories and keeps ~/RecentWork
filled with symlinks to the files you created or edited most recently.
Old links are pruned by age and count.`

	MsgInitShort       = "Create directories, default config and the launch agent"
	MsgStartShort      = "Start the background service"
	MsgStopShort       = "Stop the background service"
	MsgStatusShort     = "Show service state and tracking summary"
	MsgListShort       = "List tracked files, newest first"
	MsgClearShort      = "Remove all symlinks and reset state"
	MsgUninstallShort  = "Stop the service and remove everything recent-work created"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
)

// Flag descriptions
const (
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat     = "Output format: auto, term, text, json"
	MsgFlagForeground = "Run in the foreground instead of through launchd"
	MsgFlagYes        = "Skip the confirmation prompt"
	MsgFlagForce      = "Overwrite an existing config file"
)

// Status messages
const (
	MsgInitHeader        = "recent-work setup"
	MsgInitWatching      = "Watching: %s"
	MsgInitNoWatchDirs   = "No candidate directories found; edit %s to add some"
	MsgInitRetention     = "Max files: %d, max age: %dh"
	MsgInitOutput        = "Output: %s"
	MsgInitConfigWritten = "Wrote config %s"
	MsgInitConfigKept    = "Kept existing config %s"
	MsgInitAgentWritten  = "Wrote launch agent %s"
	MsgInitNoLaunchd     = "launchd is not available here; run 'recent-work start --foreground' under your own supervisor"
	MsgInitDone          = "Done! Run 'recent-work start' to begin watching."

	MsgStartForeground = "Starting in foreground mode (Ctrl+C to stop)..."
	MsgStarted         = "Started recent-work service."
	MsgStopped         = "Stopped recent-work service."

	MsgNothingToClear = "No tracked files to clear."
	MsgClearPrompt    = "Remove %d symlink(s) from %s?"
	MsgCleared        = "Cleared %d symlink(s)."
	MsgCancelled      = "Cancelled."

	MsgUninstallPrompt   = "Stop the service, remove the launch agent, %s and the log directory?"
	MsgRemovedAgent      = "Removed launch agent."
	MsgRemovedOutput     = "Removed %s."
	MsgRemovedLogs       = "Removed log directory."
	MsgUninstallComplete = "Uninstall complete."
)

// Error messages
const (
	MsgErrNeedsYes = "refusing to continue without a terminal; pass --yes"
)

var (
	//go:embed usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
