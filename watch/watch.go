package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"go.jacobcolvin.com/tooltipgen/tooltip"
)

// ErrStopped is returned by [Watcher.Start] after [Watcher.Stop].
var ErrStopped = errors.New("watcher stopped")

// Batch is a set of settled paths.
type Batch struct {
	// Changed lists created or modified files.
	Changed []string
	// Removed lists deleted or renamed-away files.
	Removed []string
}

// Handler receives settled batches.
type Handler func(ctx context.Context, b Batch)

// Stats counts watcher activity.
type Stats struct {
	LastEventTime time.Time
	LastEventPath string
	Events        int
	Batches       int
	Errors        int
	Dirs          int
}

// Option configures a [Watcher].
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is
// delivered. The default is 500ms.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
		w.tick = max(d/5, time.Millisecond)
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

type pending struct {
	at      time.Time
	removed bool
}

// Watcher delivers debounced file changes to a [Handler].
type Watcher struct {
	fsw       *fsnotify.Watcher
	logger    *slog.Logger
	handler   Handler
	pending   map[string]pending
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
	stats     Stats
	filter    tooltip.PathFilter
	roots     []string
	debounce  time.Duration
	tick      time.Duration
	mu        sync.RWMutex
	running   bool
	stopped   bool
}

// New creates a [Watcher] over roots. Call [Watcher.Start] to begin
// watching and [Watcher.Stop] to release its resources.
func New(roots []string, filter tooltip.PathFilter, handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		handler:  handler,
		filter:   filter,
		roots:    roots,
		pending:  map[string]pending{},
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		debounce: 500 * time.Millisecond,
		tick:     100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = slog.Default()
	}

	return w, nil
}

// Start registers the roots and begins delivering batches. It does not
// block; the watcher runs until ctx is canceled or [Watcher.Stop] is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	stopped, running := w.stopped, w.running
	w.mu.RUnlock()

	if stopped {
		return ErrStopped
	}

	if running {
		return nil
	}

	for _, root := range w.roots {
		err := w.addTree(root, false)
		if err != nil {
			return err
		}
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	w.logger.Info("watching",
		slog.Any("roots", w.roots),
		slog.Int("dirs", len(w.fsw.WatchList())),
	)

	go w.run(ctx)

	return nil
}

// Stop ends watching and waits for an in-flight batch to finish. It is safe
// to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running && !w.stopped
	w.stopped = true
	w.mu.Unlock()

	w.closeOnce.Do(func() {
		close(w.stopCh)

		if wasRunning {
			<-w.doneCh
		}

		err := w.fsw.Close()
		if err != nil {
			w.logger.Error("close watcher", slog.Any("error", err))
		}
	})
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			w.logger.Error("watch error", slog.Any("error", err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			err = w.addTree(event.Name, true)
			if err != nil {
				w.logger.Warn("watch new directory",
					slog.String("path", event.Name),
					slog.Any("error", err),
				)
			}

			return
		}
	}

	if !w.filter.Match(event.Name) {
		return
	}

	var removed bool

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		removed = true
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
	default:
		return
	}

	w.logger.Debug("source event",
		slog.String("path", event.Name),
		slog.String("op", event.Op.String()),
	)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	w.stats.Events++
	w.stats.LastEventTime = now
	w.stats.LastEventPath = event.Name
	w.pending[event.Name] = pending{at: now, removed: removed}
}

// addTree watches dir and every directory below it that the filter does not
// exclude. With markFiles set, matching files already present are queued,
// since they may have been written before the watch was registered.
func (w *Watcher) addTree(dir string, markFiles bool) error {
	added := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			if markFiles && w.filter.Match(path) {
				w.mu.Lock()
				w.pending[path] = pending{at: time.Now()}
				w.mu.Unlock()
			}

			return nil
		}

		if path != dir && w.filter.Excluded(path) {
			return filepath.SkipDir
		}

		err = w.fsw.Add(path)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		added++

		return nil
	})
	if err != nil {
		return fmt.Errorf("watch tree %s: %w", dir, err)
	}

	w.mu.Lock()
	w.stats.Dirs += added
	w.mu.Unlock()

	return nil
}

// flush delivers the paths that have been quiet for the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()

	var b Batch

	now := time.Now()

	for path, p := range w.pending {
		if now.Sub(p.at) < w.debounce {
			continue
		}

		if p.removed {
			b.Removed = append(b.Removed, path)
		} else {
			b.Changed = append(b.Changed, path)
		}

		delete(w.pending, path)
	}

	if len(b.Changed) == 0 && len(b.Removed) == 0 {
		w.mu.Unlock()

		return
	}

	w.stats.Batches++
	w.mu.Unlock()

	slices.Sort(b.Changed)
	slices.Sort(b.Removed)

	w.handler(ctx, b)
}
