// Package watch runs a callback when watched files change, debouncing
// bursts of filesystem events.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/logger"
)

// ChangeFunc receives the files that changed during one debounce period
type ChangeFunc func(paths []string)

// Watcher watches a set of files for changes
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange ChangeFunc
	log      *zap.SugaredLogger

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
	stopped bool

	// held for the duration of each onChange call
	callMu sync.Mutex
}

// New watches paths. Parent directories are watched rather than the files
// themselves so that editors replacing a file by rename are still seen.
func New(paths []string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		log:      logger.ComponentLogger("watch"),
		pending:  make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "resolving %s", p)
		}
		w.files[abs] = true
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

// Run delivers change notifications until ctx is cancelled. Callbacks
// never overlap, and none is running or started once Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			w.log.Debugw("detected change",
				logger.FieldFile, abs,
				logger.FieldOp, event.Op.String())
			w.schedule(abs)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid changes into one callback
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.callMu.Lock()
	defer w.callMu.Unlock()

	w.mu.Lock()
	if w.stopped || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	sort.Strings(paths)
	w.onChange(paths)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	// wait out a callback already in progress
	w.callMu.Lock()
	w.callMu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.log.Warnw("closing watcher", logger.FieldError, err)
	}
}
