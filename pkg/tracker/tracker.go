// Package tracker runs the recent-work pipeline: notifications from a
// source are debounced, filtered and handed to the symlink manager, and the
// pruner enforces retention after every tracked file and on an interval.
package tracker

import (
	"context"
	"sync"

	"github.com/arthur-debert/recent-work/pkg/clock"
	"github.com/arthur-debert/recent-work/pkg/config"
	"github.com/arthur-debert/recent-work/pkg/datastore"
	"github.com/arthur-debert/recent-work/pkg/debounce"
	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/pruner"
	"github.com/arthur-debert/recent-work/pkg/rules"
	"github.com/arthur-debert/recent-work/pkg/symlinks"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/arthur-debert/recent-work/pkg/watcher"
	"github.com/rs/zerolog"
)

// Source delivers raw notifications for a set of directories until ctx is
// done, then closes the channel.
type Source interface {
	Subscribe(ctx context.Context, dirs []string) (<-chan types.Notification, error)
}

// Options configures a Tracker. FS, Clock and Source default to the real
// filesystem, the wall clock and an fsnotify watcher.
type Options struct {
	Config *config.Config
	FS     types.FS
	Clock  types.Clock
	Source Source
}

// Tracker owns one run of the service.
type Tracker struct {
	cfg    *config.Config
	fs     types.FS
	clock  types.Clock
	source Source
	paths  paths.Paths
	filter *rules.Filter
	logger zerolog.Logger

	store   *datastore.Store
	manager *symlinks.Manager
	pruner  *pruner.Pruner

	// opMu serializes track-then-prune against periodic prunes.
	opMu sync.Mutex

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// New wires a Tracker from cfg.
func New(opts Options) (*Tracker, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}

	p, err := paths.New(opts.Config.OutputDir)
	if err != nil {
		return nil, err
	}

	source := opts.Source
	if source == nil {
		source = watcher.New(watcher.Options{FS: fs, Ignore: p.IsInOutputDir})
	}

	t := &Tracker{
		cfg:    opts.Config,
		fs:     fs,
		clock:  clk,
		source: source,
		paths:  p,
		filter: rules.NewFilter(opts.Config.FilterOptions()),
		logger: logging.GetLogger("tracker"),
		store:  datastore.New(fs, p.StateFile()),
	}
	t.manager = symlinks.NewManager(symlinks.Options{
		FS:        fs,
		OutputDir: p.OutputDir(),
		Store:     t.store,
		Filter:    t.filter,
		Clock:     clk,
	})
	t.pruner = pruner.New(pruner.Options{
		FS:        fs,
		OutputDir: p.OutputDir(),
		Store:     t.store,
		Clock:     clk,
		Policy: pruner.Policy{
			MaxFiles: opts.Config.Retention.MaxFiles,
			MaxAge:   opts.Config.Retention.MaxAge(),
		},
		Lock: &t.opMu,
	})
	return t, nil
}

// Run sets up the output directory, loads state, prunes, then processes
// notifications until ctx is done or Stop is called. Only startup failures
// are returned.
func (t *Tracker) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.cancel = cancel
	t.mu.Unlock()

	for _, dir := range []string{t.paths.OutputDir(), t.paths.StateDir()} {
		if err := t.fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).
				WithDetail("path", dir)
		}
	}

	if err := t.store.Load(); err != nil {
		t.logger.Warn().Err(err).Msg("Starting with empty state")
	}
	t.logger.Info().Int("records", t.store.Len()).Str("state", t.store.Path()).Msg("Loaded state")

	t.pruner.Prune()

	dirs := t.cfg.ExistingWatchDirs()
	if len(dirs) == 0 {
		return errors.New(errors.ErrNoWatchDirs, "no valid watch directories").
			WithDetail("configured", t.cfg.Watch)
	}

	events, err := t.source.Subscribe(ctx, dirs)
	if err != nil {
		return errors.Wrap(err, errors.ErrWatchStart, "failed to start watching")
	}

	debouncer := debounce.New(t.cfg.Debounce, t.fs, t.handle)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t.pruner.Run(ctx, t.cfg.PruneInterval)
	}()

	t.logger.Info().
		Strs("watch", dirs).
		Str("output", t.paths.OutputDir()).
		Dur("debounce", t.cfg.Debounce).
		Int("max_files", t.cfg.Retention.MaxFiles).
		Int("max_age_hours", t.cfg.Retention.MaxAgeHours).
		Msg("Tracker started")

	t.consume(ctx, events, debouncer)

	cancel()
	debouncer.Stop()
	wg.Wait()
	t.store.Wait()
	if err := t.store.Flush(); err != nil {
		t.logger.Warn().Err(err).Msg("Failed to persist state on shutdown")
	}
	t.logger.Info().Msg("Tracker stopped")
	return nil
}

func (t *Tracker) consume(ctx context.Context, events <-chan types.Notification, debouncer *debounce.Debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if t.paths.IsInOutputDir(n.Path) {
				continue
			}
			debouncer.Submit(n)
		}
	}
}

// handle runs for every settled path.
func (t *Tracker) handle(path string) {
	if t.filter.SkipPath(path) {
		t.logger.Trace().Str("path", path).Msg("Skipping excluded path")
		return
	}

	t.opMu.Lock()
	defer t.opMu.Unlock()

	if _, ok := t.manager.Track(path); ok {
		t.pruner.PruneLocked()
	}
}

// Stop ends Run. It is safe to call more than once and from any goroutine.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	if t.cancel != nil {
		t.cancel()
	}
}

// Records lists the tracked links, newest first.
func (t *Tracker) Records() []types.LinkStatus {
	return t.manager.List()
}

// Summary returns aggregate counts.
func (t *Tracker) Summary() types.Summary {
	return Summarize(t.Records(), t.cfg.Retention.MaxFiles)
}

// Manager exposes the symlink manager for reset operations.
func (t *Tracker) Manager() *symlinks.Manager {
	return t.manager
}

// Paths returns the resolved locations.
func (t *Tracker) Paths() paths.Paths {
	return t.paths
}

// Summarize counts tracked and broken links.
func Summarize(records []types.LinkStatus, maxFiles int) types.Summary {
	summary := types.Summary{Tracked: len(records), MaxFiles: maxFiles}
	for _, r := range records {
		if r.Broken {
			summary.Broken++
		}
	}
	return summary
}
