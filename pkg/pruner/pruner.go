// Package pruner enforces the retention policy on the output directory.
//
// A prune cycle runs three passes in order, each committing record by record:
//
//  1. dangling: records whose symlink or target is gone, plus untracked
//     symlinks left in the output directory
//  2. age: records older than the maximum age
//  3. count: the oldest records beyond the maximum count
//
// A record whose timestamp equals the age cutoff is kept.
package pruner

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/recent-work/pkg/datastore"
	"github.com/arthur-debert/recent-work/pkg/filesystem"
	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/paths"
	"github.com/arthur-debert/recent-work/pkg/symlinks"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/rs/zerolog"
)

// Policy holds the retention limits.
type Policy struct {
	MaxFiles int
	MaxAge   time.Duration
}

// Options configures a Pruner.
type Options struct {
	FS        types.FS
	OutputDir string
	Store     datastore.DataStore
	Clock     types.Clock
	Policy    Policy

	// Lock, when set, is held for each cycle instead of the pruner's own
	// mutex. Callers that mutate the store elsewhere pass their lock here.
	Lock sync.Locker
}

// Result counts what one cycle removed.
type Result struct {
	Orphaned  int
	Broken    int
	Expired   int
	OverLimit int
}

// Total is the number of entries removed.
func (r Result) Total() int {
	return r.Orphaned + r.Broken + r.Expired + r.OverLimit
}

// Pruner removes links that fall outside the retention policy.
type Pruner struct {
	fs        types.FS
	outputDir string
	stateDir  string
	store     datastore.DataStore
	clock     types.Clock
	policy    Policy
	logger    zerolog.Logger

	// lock keeps cycles from overlapping.
	lock sync.Locker
}

// New creates a Pruner.
func New(opts Options) *Pruner {
	lock := opts.Lock
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Pruner{
		lock:      lock,
		fs:        opts.FS,
		outputDir: opts.OutputDir,
		stateDir:  filepath.Join(opts.OutputDir, paths.StateDirName),
		store:     opts.Store,
		clock:     opts.Clock,
		policy:    opts.Policy,
		logger:    logging.GetLogger("pruner"),
	}
}

// Prune runs one full cycle.
func (p *Pruner) Prune() Result {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.PruneLocked()
}

// PruneLocked runs one cycle; the caller already holds the configured lock.
func (p *Pruner) PruneLocked() Result {
	var result Result
	result.Broken = p.pruneDangling()
	result.Orphaned = p.sweepUntracked()
	result.Expired = p.pruneExpired()
	result.OverLimit = p.pruneOverLimit()

	if result.Total() > 0 {
		p.logger.Info().
			Int("broken", result.Broken).
			Int("orphaned", result.Orphaned).
			Int("expired", result.Expired).
			Int("over_limit", result.OverLimit).
			Int("remaining", p.store.Len()).
			Msg("Pruned symlinks")
	}
	return result
}

// Run prunes every interval until ctx is done.
func (p *Pruner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Prune()
		}
	}
}

func (p *Pruner) pruneDangling() int {
	removed := 0
	for name, record := range p.store.AllEntries() {
		linkPath := filepath.Join(p.outputDir, name)
		linkGone := !filesystem.EntryExists(p.fs, linkPath)
		targetGone := !filesystem.Exists(p.fs, record.OriginalPath)
		if !linkGone && !targetGone {
			continue
		}
		p.logger.Debug().
			Str("name", name).
			Bool("link_gone", linkGone).
			Bool("target_gone", targetGone).
			Msg("Removing dangling entry")
		p.remove(name)
		removed++
	}
	return removed
}

// sweepUntracked removes symlinks in the output directory that have no
// record, such as links left behind by a lost state file. Regular files and
// the state directory are left alone.
func (p *Pruner) sweepUntracked() int {
	entries, err := p.fs.ReadDir(p.outputDir)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Cannot read output directory")
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		if _, tracked := p.store.Get(entry.Name()); tracked {
			continue
		}
		path := filepath.Join(p.outputDir, entry.Name())
		if path == p.stateDir {
			continue
		}
		if err := symlinks.RemoveLink(p.fs, path); err != nil {
			p.logger.Warn().Err(err).Str("name", entry.Name()).Msg("Failed to remove untracked symlink")
			continue
		}
		p.logger.Debug().Str("name", entry.Name()).Msg("Removed untracked symlink")
		removed++
	}
	return removed
}

func (p *Pruner) pruneExpired() int {
	if p.policy.MaxAge <= 0 {
		return 0
	}
	cutoff := p.clock.Now().Add(-p.policy.MaxAge)

	removed := 0
	for name, record := range p.store.AllEntries() {
		if !record.Timestamp.Before(cutoff) {
			continue
		}
		p.logger.Debug().Str("name", name).Time("timestamp", record.Timestamp).Msg("Removing expired symlink")
		p.remove(name)
		removed++
	}
	return removed
}

func (p *Pruner) pruneOverLimit() int {
	if p.policy.MaxFiles <= 0 {
		return 0
	}
	sorted := p.store.SortedByAge()
	excess := len(sorted) - p.policy.MaxFiles
	if excess <= 0 {
		return 0
	}
	for _, entry := range sorted[:excess] {
		p.logger.Debug().Str("name", entry.Name).Msg("Removing symlink over the count limit")
		p.remove(entry.Name)
	}
	return excess
}

func (p *Pruner) remove(name string) {
	if err := symlinks.RemoveLink(p.fs, filepath.Join(p.outputDir, name)); err != nil {
		p.logger.Warn().Err(err).Str("name", name).Msg("Failed to remove symlink")
	}
	if err := p.store.Remove(name); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to persist state")
	}
}
