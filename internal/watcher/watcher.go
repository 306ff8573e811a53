// Package watcher turns file changes to a snapshot into coalesced change
// signals, the counterpart of native mutation notifications.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ruminaider/vselect/internal/schedule"
)

// DefaultDelay is the quiet period after the last event before a signal.
const DefaultDelay = 150 * time.Millisecond

// Watcher watches one file. It watches the parent directory so editors that
// replace the file by rename are still seen.
type Watcher struct {
	path string
	log  *slog.Logger

	fs       *fsnotify.Watcher
	timers   *schedule.Realtime
	debounce *schedule.Debouncer
	tasks    chan func()
	changed  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
}

// New creates a watcher for path. A non-positive delay uses DefaultDelay.
func New(path string, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving watch path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    abs,
		log:     logger,
		fs:      fw,
		tasks:   make(chan func(), 1),
		changed: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	// Timer callbacks are handed back to the loop goroutine, which owns the
	// debouncer.
	w.timers = schedule.NewRealtime(func(fn func()) {
		select {
		case w.tasks <- fn:
		case <-ctx.Done():
		}
	})
	w.debounce = schedule.NewDebouncer(w.timers, delay)
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch snapshot dir: %w", err)
	}
	go w.loop()
	return nil
}

// Changed delivers one signal per burst of changes. Signals that are not
// consumed are merged.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Stop shuts the watcher down and waits for the loop to exit. Safe to call
// repeatedly.
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		w.cancel()
		w.timers.Stop()
		_ = w.fs.Close()
		select {
		case <-w.done:
		case <-time.After(time.Second):
		}
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer w.debounce.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case fn := <-w.tasks:
			fn()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce.Trigger(w.signal)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) signal() {
	w.log.Debug("snapshot changed", "path", w.path)
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
