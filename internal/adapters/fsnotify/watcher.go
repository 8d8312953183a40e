// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It monitors a set of corpus files
// (glossaries, TM files) and debounces rapid events — editors and sync
// tools often trigger several writes per save.
//
// Parent directories are watched rather than the files themselves: most
// editors save via write-to-temp-then-rename, which silently detaches a
// watch placed directly on the file.
package fsnotify

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corey/localcat/internal/ports"
)

// debounceInterval suppresses duplicate events for the same file.
const debounceInterval = 200 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool

	// mu guards the watch set; the event loop reads it per event so
	// Update can swap it while the loop runs.
	mu      sync.Mutex
	watched map[string]bool
	dirs    map[string]bool
}

// NewWatcher creates a new corpus file watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:      fw,
		done:    make(chan struct{}),
		watched: make(map[string]bool),
		dirs:    make(map[string]bool),
	}, nil
}

// Watch starts monitoring the given files. onChange is called with the
// absolute path of each watched file that changes.
func (w *Watcher) Watch(paths []string, onChange func(path string)) error {
	if err := w.setPaths(paths); err != nil {
		return err
	}

	// Debounce state: last triggering event time per file. Owned by the
	// event goroutine.
	debounce := make(map[string]time.Time)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil || !w.isWatched(abs) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					// Chmod and friends never trigger and must not eat the
					// debounce window of a real write right behind them.
					continue
				}

				now := time.Now()
				if last, seen := debounce[abs]; seen && now.Sub(last) < debounceInterval {
					continue
				}
				debounce[abs] = now
				onChange(abs)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed — fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Update replaces the watched file set. Used after a reload picks up a
// project file that names different corpora.
func (w *Watcher) Update(paths []string) error {
	return w.setPaths(paths)
}

// setPaths swaps in a new watch set, adding directory watches for new
// parents and dropping ones no longer referenced.
func (w *Watcher) setPaths(paths []string) error {
	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.fw.Add(dir); err != nil {
			return err
		}
	}
	for dir := range w.dirs {
		if !dirs[dir] {
			// Best effort: a stale directory watch only costs filtering.
			w.fw.Remove(dir)
		}
	}
	w.watched = watched
	w.dirs = dirs
	return nil
}

func (w *Watcher) isWatched(abs string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watched[abs]
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

var _ ports.Watcher = (*Watcher)(nil)
