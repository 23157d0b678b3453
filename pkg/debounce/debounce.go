// Package debounce coalesces bursts of filesystem notifications into one
// event per path.
//
// Every notification for a path restarts that path's quiet window. When a
// window elapses without further notifications the handler is called once,
// provided the path still exists and is not a directory. Paths are
// independent of each other.
package debounce

import (
	"sync"
	"time"

	"github.com/arthur-debert/recent-work/pkg/logging"
	"github.com/arthur-debert/recent-work/pkg/types"
	"github.com/rs/zerolog"
)

// Handler receives the path of a settled file.
type Handler func(path string)

type entry struct {
	timer      *time.Timer
	generation uint64
}

// Debouncer schedules one delayed handler call per path.
type Debouncer struct {
	window  time.Duration
	fs      types.FS
	handler Handler
	logger  zerolog.Logger

	mu       sync.Mutex
	entries  map[string]*entry
	closed   bool
	inflight sync.WaitGroup
}

// New creates a Debouncer. fs is used to check the path still exists when
// its window elapses.
func New(window time.Duration, fs types.FS, handler Handler) *Debouncer {
	return &Debouncer{
		window:  window,
		fs:      fs,
		handler: handler,
		logger:  logging.GetLogger("debounce"),
		entries: make(map[string]*entry),
	}
}

// Submit records a notification. Directory and removal notifications are
// ignored.
func (d *Debouncer) Submit(n types.Notification) {
	if !n.Trackable() {
		return
	}
	d.Touch(n.Path)
}

// Touch restarts the quiet window for path.
func (d *Debouncer) Touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	e, ok := d.entries[path]
	if !ok {
		e = &entry{}
		d.entries[path] = e
	}
	e.generation++
	generation := e.generation

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(d.window, func() {
		d.fire(path, generation)
	})
}

// Pending returns the number of paths waiting for their window to elapse.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *Debouncer) fire(path string, generation uint64) {
	d.mu.Lock()
	e, ok := d.entries[path]
	if d.closed || !ok || e.generation != generation {
		// A later notification rescheduled this path.
		d.mu.Unlock()
		return
	}
	delete(d.entries, path)
	d.inflight.Add(1)
	d.mu.Unlock()
	defer d.inflight.Done()

	info, err := d.fs.Stat(path)
	if err != nil {
		d.logger.Trace().Str("path", path).Msg("Dropping event for vanished file")
		return
	}
	if info.IsDir() {
		return
	}

	d.logger.Trace().Str("path", path).Msg("File settled")
	d.handler(path)
}

// Stop cancels pending windows and waits for running handlers to return.
// Notifications submitted after Stop are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.inflight.Wait()
		return
	}
	d.closed = true
	for path, e := range d.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(d.entries, path)
	}
	d.mu.Unlock()

	d.inflight.Wait()
}
