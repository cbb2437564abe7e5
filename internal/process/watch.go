package process

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

var ignoredDirs = map[string]struct{}{
	"__pycache__":  {},
	"node_modules": {},
	"venv":         {},
}

// Watcher calls a function when files in the watched
// directories change, debouncing bursts of events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()

	log *zap.Logger
}

// NewWatcher creates a watcher over dirs and all their subdirectories.
func NewWatcher(dirs []string, debounce time.Duration, onChange func(), log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		watcher:  fsw,
		debounce: debounce,
		onChange: onChange,
		log:      log.Named("watcher"),
	}

	for _, dir := range dirs {
		if err := w.addRecursive(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && ignored(d.Name()) {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

// Run dispatches change notifications until ctx is
// cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.relevant(evt) {
				continue
			}

			w.log.Debug("file changed",
				zap.String("path", evt.Name),
				zap.Stringer("op", evt.Op),
			)

			// watch directories created after startup
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(evt.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) &&
		!evt.Has(fsnotify.Create) &&
		!evt.Has(fsnotify.Remove) &&
		!evt.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(evt.Name)

	return !ignored(base) &&
		!strings.HasSuffix(base, ".pyc") &&
		!strings.HasSuffix(base, "~")
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func ignored(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}

	_, ok := ignoredDirs[name]
	return ok
}
