// Package watch monitors the font and config files in watch mode,
// signalling the CLI to re-render when either changes. fsnotify is the
// primary mechanism with a stat-based polling fallback.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a set of files for changes.
type Watcher struct {
	// paths are the files being monitored.
	paths []string
	// events delivers a signal each time a watched file changes.
	// The channel is buffered to 1 so back-to-back changes coalesce.
	events chan struct{}
	// done is closed by [Watcher.Close] to signal goroutines to exit.
	done chan struct{}
	// fsw is the underlying fsnotify watcher; nil when polling.
	fsw *fsnotify.Watcher
	// once ensures [Watcher.Close] is idempotent.
	once sync.Once
	// polling is true when the watcher has fallen back to stat-based polling.
	polling atomic.Bool
	// pollInterval is the duration between stat calls in polling mode.
	pollInterval time.Duration
	// debounce is how long to wait after an event before signalling, so
	// a burst of writes produces one re-render.
	debounce time.Duration
}

// New creates a Watcher over the given files. Paths that do not exist
// are skipped by fsnotify and picked up by the polling fallback if they
// appear later. A zero debounce signals immediately.
func New(paths []string, pollInterval, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	w := &Watcher{
		paths:        paths,
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: pollInterval,
		debounce:     debounce,
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Info("fsnotify unavailable, falling back to polling", "error", err)
		w.polling.Store(true)
		go w.poll()
		return w, nil
	}

	w.fsw = fsw
	added := 0
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			slog.Debug("cannot watch file", "path", p, "error", err)
			continue
		}
		added++
	}
	if added == 0 {
		slog.Info("no watchable files, falling back to polling")
		fsw.Close()
		w.fsw = nil
		w.polling.Store(true)
		go w.poll()
		return w, nil
	}

	go w.watch()
	return w, nil
}

// Polling reports whether the watcher is using polling instead of fsnotify.
func (w *Watcher) Polling() bool {
	return w.polling.Load()
}

// Events returns a channel that receives a signal when a watched file
// changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		if w.fsw != nil {
			if closeErr := w.fsw.Close(); closeErr != nil {
				err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
			}
		}
	})
	return err
}

// watch loops over fsnotify events, debouncing bursts into a single
// notification. If fsnotify errors, watch closes the native watcher and
// falls back to [Watcher.poll].
func (w *Watcher) watch() {
	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.debounce <= 0 {
				w.notify()
				continue
			}
			if pending == nil {
				pending = time.NewTimer(w.debounce)
				fire = pending.C
			} else {
				pending.Reset(w.debounce)
			}
		case <-fire:
			pending = nil
			fire = nil
			w.notify()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Info("fsnotify error, switching to polling", "error", err)
			w.fsw.Close()
			w.fsw = nil
			w.polling.Store(true)
			go w.poll()
			return
		}
	}
}

// poll periodically stats the watched files and sends a notification
// when any modification time advances. It runs as a fallback when
// fsnotify is unavailable.
func (w *Watcher) poll() {
	lastMod := w.latestMod()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			mod := w.latestMod()
			if mod.After(lastMod) {
				lastMod = mod
				w.notify()
			}
		}
	}
}

// latestMod returns the most recent modification time among the watched
// files. Missing files are ignored.
func (w *Watcher) latestMod() time.Time {
	var latest time.Time
	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest
}

// notify sends a single signal to the events channel. If a signal is
// already pending the call is a no-op, coalescing rapid successive
// changes.
func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
		// Channel already has a pending event, skip
	}
}
