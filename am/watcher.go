package am

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/logger"
)

// ChangeCallback receives the watched files that changed since the last
// call, sorted.
type ChangeCallback func(paths []string) error

// Watcher watches a set of files and reports changes after a quiet period.
// It watches the parent directories so editors that save by renaming are
// still seen.
type Watcher struct {
	watcher        *fsnotify.Watcher
	paths          map[string]bool
	callbacks      []ChangeCallback
	mu             sync.Mutex
	fireMu         sync.Mutex // held while callbacks run
	pending        map[string]bool
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	log            *zap.SugaredLogger
}

// NewWatcher creates a watcher for paths.
func NewWatcher(paths []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		paths:          make(map[string]bool),
		pending:        make(map[string]bool),
		debouncePeriod: debounce,
		log:            logger.ComponentLogger("am.watch"),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// OnChange registers a callback
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !w.paths[path] {
				continue
			}
			w.log.Debugw("change detected", logger.FieldPath, event.Name, "op", event.Op.String())
			w.schedule(path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid changes into one callback round
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

// fire delivers pending changes. Rounds never overlap: a timer that
// fires while callbacks are still running waits for them.
func (w *Watcher) fire() {
	w.fireMu.Lock()
	defer w.fireMu.Unlock()

	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	for _, callback := range callbacks {
		if err := callback(changed); err != nil {
			// Continue calling other callbacks even if one fails
			w.log.Warnw("change callback failed", logger.FieldError, err)
		}
	}
}

// Stop stops watching
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
