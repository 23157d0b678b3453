package cli

import (
	"fmt"
	"time"

	"github.com/arthur-debert/recent-work/pkg/clock"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/symlinks"
	"github.com/arthur-debert/recent-work/pkg/tracker"
	"github.com/arthur-debert/recent-work/pkg/ui"
	"github.com/spf13/cobra"
)

func (a *app) newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "links",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd, format)
			if err != nil {
				return err
			}
			_, p, err := loadConfig()
			if err != nil {
				return err
			}

			store := loadStore(p)
			return r.RenderList(ui.ListView{
				Links: symlinks.Statuses(filesystem.NewOS(), store),
				Now:   time.Now(),
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := renderer(cmd, format)
			if err != nil {
				return err
			}
			cfg, p, err := loadConfig()
			if err != nil {
				return err
			}

			links := symlinks.Statuses(filesystem.NewOS(), loadStore(p))

			view := ui.StatusView{
				Summary:     tracker.Summarize(links, cfg.Retention.MaxFiles),
				MaxAgeHours: cfg.Retention.MaxAgeHours,
				OutputDir:   p.OutputDir(),
				ConfigFile:  paths.ConfigFilePath(),
				WatchDirs:   []ui.WatchDir{},
			}
			for _, dir := range cfg.WatchDirs() {
				view.WatchDirs = append(view.WatchDirs, ui.WatchDir{Path: dir.Path, Exists: dir.Exists})
			}

			status, err := a.newService().Status(cmd.Context())
			switch {
			case err != nil:
				view.Service = ui.ServiceView{State: ui.ServiceUnsupported}
			case status.Running():
				view.Service = ui.ServiceView{State: ui.ServiceRunning, PID: status.PID}
			default:
				view.Service = ui.ServiceView{State: ui.ServiceStopped}
			}

			return r.RenderStatus(view)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

func (a *app) newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "clear",
		Short:   MsgClearShort,
		GroupID: "links",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, p, err := loadConfig()
			if err != nil {
				return err
			}
			store := loadStore(p)

			count := store.Len()
			if count == 0 {
				fmt.Fprintln(out, MsgNothingToClear)
				return nil
			}

			ok, err := a.confirmOrSkip(out, yes, fmt.Sprintf(MsgClearPrompt, count, paths.ContractHome(p.OutputDir())))
			if err != nil || !ok {
				return err
			}

			manager := symlinks.NewManager(symlinks.Options{
				FS:        filesystem.NewOS(),
				OutputDir: p.OutputDir(),
				Store:     store,
				Clock:     clock.Real(),
			})
			removed := manager.RemoveAll()
			store.Wait()

			ui.Success(out, fmt.Sprintf(MsgCleared, removed))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}
