// Package cli builds the recent-work command tree.
package cli

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/recent-work/internal/version"
	"github.com/arthur-debert/recent-work/pkg/cobrax/topics"
	"github.com/arthur-debert/recent-work/pkg/config"
	"github.com/arthur-debert/recent-work/pkg/datastore"
	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/service"
	"github.com/arthur-debert/recent-work/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// app holds what the commands share. Tests replace the service and the
// prompt.
type app struct {
	verbosity   int
	newService  func() *service.Service
	confirm     func(question string) (bool, error)
	interactive func() bool
}

func defaultApp() *app {
	return &app{
		newService: func() *service.Service {
			return service.New(service.Options{
				Label:     paths.LaunchdLabel,
				PlistPath: paths.LaunchdPlistPath(),
			})
		},
		confirm: ui.Confirm,
		interactive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd())
		},
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultApp())
}

func newRootCmd(a *app) *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     paths.AppName,
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)

	rootCmd.AddGroup(&cobra.Group{ID: "service", Title: "SERVICE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "links", Title: "LINKS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(a.newInitCmd())
	rootCmd.AddCommand(a.newStartCmd())
	rootCmd.AddCommand(a.newStopCmd())
	rootCmd.AddCommand(a.newStatusCmd())
	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newClearCmd())
	rootCmd.AddCommand(a.newUninstallCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	source, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, source, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// loadConfig reads the user's configuration.
func loadConfig() (*config.Config, paths.Paths, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	p, err := paths.New(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

// loadStore opens the state file read-only; a missing or corrupt file gives
// an empty store.
func loadStore(p paths.Paths) *datastore.Store {
	store := datastore.New(filesystem.NewOS(), p.StateFile())
	if err := store.Load(); err != nil {
		log.Warn().Err(err).Msg("Ignoring unreadable state file")
	}
	return store
}

func renderer(cmd *cobra.Command, format string) (ui.Renderer, error) {
	f, err := ui.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(f, cmd.OutOrStdout())
}

// confirmOrSkip asks question unless yes is set. Without a terminal it
// refuses instead of blocking.
func (a *app) confirmOrSkip(out io.Writer, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, errors.New(errors.ErrInvalidInput, MsgErrNeedsYes)
	}
	ok, err := a.confirm(question)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "failed to read confirmation")
	}
	if !ok {
		fmt.Fprintln(out, MsgCancelled)
	}
	return ok, nil
}
