package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/recent-work/pkg/config"
	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/service"
	"github.com/arthur-debert/recent-work/pkg/tracker"
	"github.com/arthur-debert/recent-work/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const installedBinary = "/usr/local/bin/recent-work"

func (a *app) newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, p, err := loadConfig()
			if err != nil {
				return err
			}

			for _, dir := range []string{p.OutputDir(), p.StateDir(), paths.LogDir()} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
				}
			}

			fmt.Fprintf(out, "%s\n\n", MsgInitHeader)

			configPath := paths.ConfigFilePath()
			if _, err := os.Stat(configPath); err == nil && !force {
				fmt.Fprintf(out, MsgInitConfigKept+"\n", paths.ContractHome(configPath))
			} else {
				if len(cfg.Watch) == 0 {
					cfg.Watch = cfg.ExistingWatchDirs()
				}
				if err := config.Save(configPath, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, MsgInitConfigWritten+"\n", paths.ContractHome(configPath))
			}

			watching := cfg.ExistingWatchDirs()
			if len(watching) == 0 {
				ui.Warning(out, fmt.Sprintf(MsgInitNoWatchDirs, paths.ContractHome(configPath)))
			} else {
				display := make([]string, 0, len(watching))
				for _, dir := range watching {
					display = append(display, paths.ContractHome(dir))
				}
				fmt.Fprintf(out, MsgInitWatching+"\n", strings.Join(display, ", "))
			}
			fmt.Fprintf(out, MsgInitRetention+"\n", cfg.Retention.MaxFiles, cfg.Retention.MaxAgeHours)
			fmt.Fprintf(out, MsgInitOutput+"\n", paths.ContractHome(p.OutputDir()))

			svc := a.newService()
			if svc.Supported() {
				if err := svc.Install(agentDescriptor()); err != nil {
					return err
				}
				fmt.Fprintf(out, MsgInitAgentWritten+"\n", paths.ContractHome(svc.PlistPath()))
			} else {
				ui.Warning(out, MsgInitNoLaunchd)
			}

			fmt.Fprintln(out)
			ui.Success(out, MsgInitDone)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

// agentDescriptor describes the launch agent for the running binary.
func agentDescriptor() service.Descriptor {
	logDir := paths.LogDir()
	return service.Descriptor{
		Label:     paths.LaunchdLabel,
		Program:   executablePath(),
		Args:      []string{"start", "--foreground"},
		StdoutLog: filepath.Join(logDir, paths.AppName+".out"),
		StderrLog: filepath.Join(logDir, paths.AppName+".err"),
	}
}

// executablePath returns the binary launchd should run. Binaries built by
// "go run" live in a temporary directory, so the installed path is used.
func executablePath() string {
	exe, err := os.Executable()
	if err != nil {
		return installedBinary
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if strings.Contains(exe, string(filepath.Separator)+"go-build") {
		return installedBinary
	}
	return exe
}

func (a *app) newStartCmd() *cobra.Command {
	var foreground bool

	cmd := &cobra.Command{
		Use:     "start",
		Short:   MsgStartShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if foreground {
				return a.runForeground(cmd)
			}
			if err := a.newService().Load(cmd.Context()); err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), MsgStarted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&foreground, "foreground", false, MsgFlagForeground)
	return cmd
}

// runForeground runs the tracker in this process until SIGINT or SIGTERM.
func (a *app) runForeground(cmd *cobra.Command) error {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logging.SetupServiceLogger(a.verbosity)
	} else if a.verbosity == 0 {
		logging.SetupLogger(1)
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	tr, err := tracker.New(tracker.Options{Config: cfg})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, MsgStartForeground)
	fmt.Fprintf(out, MsgInitOutput+"\n", paths.ContractHome(tr.Paths().OutputDir()))

	return tr.Run(ctx)
}

func (a *app) newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stop",
		Short:   MsgStopShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.newService().Unload(cmd.Context()); err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), MsgStopped)
			return nil
		},
	}
}

func (a *app) newUninstallCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "uninstall",
		Short:   MsgUninstallShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, p, err := loadConfig()
			if err != nil {
				return err
			}

			ok, err := a.confirmOrSkip(out, yes, fmt.Sprintf(MsgUninstallPrompt, paths.ContractHome(p.OutputDir())))
			if err != nil || !ok {
				return err
			}

			svc := a.newService()
			if svc.Installed() {
				if err := svc.Uninstall(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, MsgRemovedAgent)
			}

			if _, err := os.Lstat(p.OutputDir()); err == nil {
				if err := os.RemoveAll(p.OutputDir()); err != nil {
					return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", p.OutputDir())
				}
				fmt.Fprintf(out, MsgRemovedOutput+"\n", paths.ContractHome(p.OutputDir()))
			}

			if _, err := os.Stat(paths.LogDir()); err == nil {
				if err := os.RemoveAll(paths.LogDir()); err != nil {
					return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", paths.LogDir())
				}
				fmt.Fprintln(out, MsgRemovedLogs)
			}

			fmt.Fprintln(out)
			ui.Success(out, MsgUninstallComplete)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}
