// Package service installs and controls recent-work as a per-user launchd
// agent.
//
// The agent runs "recent-work start --foreground" at login and is kept
// alive by launchd. Control goes through launchctl; on other platforms the
// control operations fail with SERVICE_CONTROL and only the descriptor
// file is managed.
package service

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/rs/zerolog"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Options configures a Service.
type Options struct {
	FS        types.FS
	Label     string
	PlistPath string

	// Runner defaults to os/exec. GOOS defaults to runtime.GOOS.
	Runner Runner
	GOOS   string
}

// Status is what launchctl reports about the agent.
type Status struct {
	Installed bool
	Loaded    bool
	PID       int
}

// Running reports whether the agent has a live process.
func (s Status) Running() bool {
	return s.Loaded && s.PID > 0
}

// Service manages one launchd agent.
type Service struct {
	fs        types.FS
	label     string
	plistPath string
	runner    Runner
	goos      string
	logger    zerolog.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	runner := opts.Runner
	if runner == nil {
		runner = execRunner{}
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	return &Service{
		fs:        fs,
		label:     opts.Label,
		plistPath: opts.PlistPath,
		runner:    runner,
		goos:      goos,
		logger:    logging.GetLogger("service"),
	}
}

// PlistPath returns where the descriptor is written.
func (s *Service) PlistPath() string {
	return s.plistPath
}

// Install writes the descriptor, replacing any previous one.
func (s *Service) Install(d Descriptor) error {
	if d.Label == "" {
		d.Label = s.label
	}
	data, err := MarshalPlist(d)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.plistPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(s.plistPath))
	}
	if err := filesystem.WriteFileAtomic(s.fs, s.plistPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrServiceDescriptor, "failed to write %s", s.plistPath)
	}
	s.logger.Info().Str("path", s.plistPath).Msg("Wrote launch agent")
	return nil
}

// Installed reports whether the descriptor exists.
func (s *Service) Installed() bool {
	return filesystem.Exists(s.fs, s.plistPath)
}

// Descriptor reads the installed descriptor.
func (s *Service) Descriptor() (Descriptor, error) {
	data, err := s.fs.ReadFile(s.plistPath)
	if err != nil {
		return Descriptor{}, errors.Wrapf(err, errors.ErrNotFound, "launch agent not installed at %s", s.plistPath)
	}
	return UnmarshalPlist(data)
}

// Load starts the agent and enables it at login.
func (s *Service) Load(ctx context.Context) error {
	if !s.Installed() {
		return errors.Newf(errors.ErrNotFound, "launch agent not installed at %s", s.plistPath).
			WithDetail("hint", "run 'recent-work init' first")
	}
	return s.launchctl(ctx, "load", "-w", s.plistPath)
}

// Unload stops the agent and disables it at login. An agent that is not
// loaded is not an error.
func (s *Service) Unload(ctx context.Context) error {
	if !s.Installed() {
		return nil
	}
	status, err := s.Status(ctx)
	if err == nil && !status.Loaded {
		return nil
	}
	return s.launchctl(ctx, "unload", "-w", s.plistPath)
}

// Uninstall unloads the agent and removes the descriptor.
func (s *Service) Uninstall(ctx context.Context) error {
	if err := s.Unload(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to unload launch agent")
	}
	if err := s.fs.Remove(s.plistPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrServiceDescriptor, "failed to remove %s", s.plistPath)
	}
	return nil
}

// Status asks launchctl about the agent.
func (s *Service) Status(ctx context.Context) (Status, error) {
	status := Status{Installed: s.Installed()}
	if err := s.supported(); err != nil {
		return status, err
	}

	out, err := s.runner.Run(ctx, "launchctl", "list", s.label)
	if err != nil {
		// launchctl exits non-zero for unknown labels.
		return status, nil
	}
	status.Loaded = true
	status.PID = parsePID(out)
	return status, nil
}

func (s *Service) launchctl(ctx context.Context, args ...string) error {
	if err := s.supported(); err != nil {
		return err
	}
	out, err := s.runner.Run(ctx, "launchctl", args...)
	if err != nil {
		return errors.Wrapf(err, errors.ErrServiceControl, "launchctl %s failed", args[0]).
			WithDetail("output", strings.TrimSpace(string(out)))
	}
	s.logger.Debug().Strs("args", args).Msg("launchctl succeeded")
	return nil
}

// Supported reports whether launchd control is available on this platform.
func (s *Service) Supported() bool {
	return s.goos == "darwin"
}

func (s *Service) supported() error {
	if !s.Supported() {
		return errors.Newf(errors.ErrServiceControl, "launchd is not available on %s", s.goos).
			WithDetail("hint", "run 'recent-work start --foreground' under your own supervisor")
	}
	return nil
}

// parsePID extracts `"PID" = 123;` from launchctl list output.
func parsePID(out []byte) int {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, `"PID"`) {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			return 0
		}
		pid, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ";")))
		if err != nil {
			return 0
		}
		return pid
	}
	return 0
}
