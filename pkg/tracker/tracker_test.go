package tracker

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/recent-work/pkg/clock"
	"github.com/arthur-debert/recent-work/pkg/config"
	"github.com/arthur-debert/recent-work/pkg/datastore"
	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	events chan types.Notification
	dirs   []string
	err    error
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan types.Notification, 64)}
}

func (f *fakeSource) Subscribe(_ context.Context, dirs []string) (<-chan types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.dirs = dirs
	return f.events, nil
}

func (f *fakeSource) subscribed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirs
}

type fixture struct {
	home      string
	watchDir  string
	outputDir string
	cfg       *config.Config
	source    *fakeSource
	clock     *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	home := t.TempDir()
	watchDir := filepath.Join(home, "Projects")
	require.NoError(t, os.MkdirAll(watchDir, 0755))
	outputDir := filepath.Join(home, "RecentWork")

	return &fixture{
		home:      home,
		watchDir:  watchDir,
		outputDir: outputDir,
		cfg: &config.Config{
			Watch:         []string{watchDir},
			OutputDir:     outputDir,
			Debounce:      20 * time.Millisecond,
			PruneInterval: time.Hour,
			Retention:     config.Retention{MaxFiles: 100, MaxAgeHours: 48},
		},
		source: newFakeSource(),
		clock:  clock.NewFake(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)),
	}
}

func (f *fixture) tracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := New(Options{Config: f.cfg, Source: f.source, Clock: f.clock})
	require.NoError(t, err)
	return tr
}

// start runs the tracker in the background and returns a func that stops it
// and waits for Run to return.
func (f *fixture) start(t *testing.T, tr *Tracker) func() {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- tr.Run(context.Background()) }()

	require.Eventually(t, func() bool { return f.source.subscribed() != nil }, 2*time.Second, 5*time.Millisecond)

	return func() {
		tr.Stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after Stop")
		}
	}
}

func (f *fixture) touch(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(f.watchDir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0644))
	f.source.events <- types.Notification{Path: path, Kind: types.ChangeModified}
	return path
}

func TestRun_TracksSettledFile(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(t)
	stop := f.start(t, tr)

	source := f.touch(t, "app/main.go")

	require.Eventually(t, func() bool { return len(tr.Records()) == 1 }, 2*time.Second, 5*time.Millisecond)
	stop()

	records := tr.Records()
	assert.Equal(t, "main.go", records[0].Name)
	assert.Equal(t, source, records[0].Target)
	assert.False(t, records[0].Broken)
	assert.Equal(t, f.clock.Now(), records[0].Timestamp)

	target, err := os.Readlink(filepath.Join(f.outputDir, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, source, target)

	reloaded := datastore.New(filesystem.NewOS(), filepath.Join(f.outputDir, ".recent-work", "state.json"))
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 1, reloaded.Len())

	assert.Equal(t, types.Summary{Tracked: 1, MaxFiles: 100}, tr.Summary())
}

func TestRun_FiltersEvents(t *testing.T) {
	f := newFixture(t)
	tr := f.tracker(t)
	stop := f.start(t, tr)
	defer stop()

	f.touch(t, ".git/config.txt")
	f.touch(t, "node/package-lock.json")
	f.source.events <- types.Notification{Path: filepath.Join(f.outputDir, "x.txt"), Kind: types.ChangeCreated}
	f.source.events <- types.Notification{Path: f.watchDir, Kind: types.ChangeModified, IsDirectory: true}
	f.touch(t, "notes/marker.md")

	require.Eventually(t, func() bool { return len(tr.Records()) == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(5 * f.cfg.Debounce)

	records := tr.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "marker.md", records[0].Name)
}

func TestRun_EnforcesRetentionAfterEachFile(t *testing.T) {
	f := newFixture(t)
	f.cfg.Retention.MaxFiles = 2
	tr := f.tracker(t)
	stop := f.start(t, tr)
	defer stop()

	for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
		f.touch(t, name)
		require.Eventually(t, func() bool {
			for _, r := range tr.Records() {
				if r.Name == name {
					return true
				}
			}
			return false
		}, 2*time.Second, 5*time.Millisecond)
		f.clock.Advance(time.Minute)
	}

	require.Eventually(t, func() bool { return len(tr.Records()) == 2 }, 2*time.Second, 5*time.Millisecond)
	records := tr.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "three.txt", records[0].Name)
	assert.Equal(t, "two.txt", records[1].Name)
}

func TestRun_InitialPruneDropsDanglingRecords(t *testing.T) {
	f := newFixture(t)

	store := datastore.New(filesystem.NewOS(), filepath.Join(f.outputDir, ".recent-work", "state.json"))
	require.NoError(t, store.Set(types.LinkRecord{
		OriginalPath: filepath.Join(f.watchDir, "gone.txt"),
		Timestamp:    f.clock.Now(),
		SymlinkName:  "gone.txt",
	}))

	tr := f.tracker(t)
	stop := f.start(t, tr)
	defer stop()

	assert.Empty(t, tr.Records())
}

func TestRun_StartupFailures(t *testing.T) {
	t.Run("no watch directories", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Watch = []string{filepath.Join(f.home, "missing")}

		err := f.tracker(t).Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoWatchDirs))
	})

	t.Run("source fails", func(t *testing.T) {
		f := newFixture(t)
		f.source.err = stderrors.New("inotify exhausted")

		err := f.tracker(t).Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrWatchStart))
	})

	t.Run("output directory cannot be created", func(t *testing.T) {
		f := newFixture(t)
		blocker := filepath.Join(f.home, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
		f.cfg.OutputDir = filepath.Join(blocker, "RecentWork")

		err := f.tracker(t).Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDirCreate))
	})
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	f := newFixture(t)
	f.cfg.Retention.MaxFiles = 0
	_, err = New(Options{Config: f.cfg})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestStop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		f := newFixture(t)
		tr := f.tracker(t)
		stop := f.start(t, tr)
		tr.Stop()
		stop()
		tr.Stop()
	})

	t.Run("context cancellation", func(t *testing.T) {
		f := newFixture(t)
		tr := f.tracker(t)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- tr.Run(ctx) }()
		require.Eventually(t, func() bool { return f.source.subscribed() != nil }, 2*time.Second, 5*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	})

	t.Run("before run", func(t *testing.T) {
		f := newFixture(t)
		tr := f.tracker(t)
		tr.Stop()
		assert.NoError(t, tr.Run(context.Background()))
	})
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]types.LinkStatus{{Name: "a"}, {Name: "b", Broken: true}, {Name: "c", Broken: true}}, 10)
	assert.Equal(t, types.Summary{Tracked: 3, Broken: 2, MaxFiles: 10}, summary)
}
