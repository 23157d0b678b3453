package ui

import (
	"fmt"
	"time"

	"github.com/arthur-debert/recent-work/pkg/types"
)

// ListView is the result of the list command.
type ListView struct {
	Links []types.LinkStatus `json:"links"`
	Now   time.Time          `json:"-"`
}

// WatchDir is one watched directory as shown by status.
type WatchDir struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// ServiceView describes the background agent.
type ServiceView struct {
	State string `json:"state"`
	PID   int    `json:"pid,omitempty"`
}

// Service states
const (
	ServiceRunning     = "running"
	ServiceStopped     = "stopped"
	ServiceUnsupported = "unsupported"
)

// StatusView is the result of the status command.
type StatusView struct {
	Service     ServiceView   `json:"service"`
	Summary     types.Summary `json:"summary"`
	MaxAgeHours int           `json:"maxAgeHours"`
	WatchDirs   []WatchDir    `json:"watchDirs"`
	OutputDir   string        `json:"outputDir"`
	ConfigFile  string        `json:"configFile"`
}

// RelativeAge renders how long before now t was, in the largest whole unit.
func RelativeAge(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
