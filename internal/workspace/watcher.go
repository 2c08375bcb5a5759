package workspace

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a workspace root and keeps the engine's index current.
// Events are debounced so rapid successive edits collapse into one reindex
// batch; in-flight extraction is never interrupted, superseded content is
// simply indexed again on the next batch.
type Watcher struct {
	engine    *Engine
	discovery *Discovery
	rootDir   string
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	startedCh chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewWatcher creates a watcher over rootDir using the engine's configured
// path patterns and debounce window.
func NewWatcher(engine *Engine, rootDir string) (*Watcher, error) {
	discovery, err := NewDiscovery(rootDir, engine.cfg.Paths.Code, engine.cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		engine:    engine,
		discovery: discovery,
		rootDir:   rootDir,
		watcher:   fw,
		debounce:  engine.cfg.Debounce(),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		startedCh: make(chan struct{}),
	}

	if err := w.addDirectories(rootDir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching for file changes. Subsequent calls are no-ops.
func (w *Watcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		close(w.startedCh)
		go w.watch(ctx)
	})
}

// Stop stops the watcher and waits for its goroutine to exit. Safe to call
// whether or not the watcher was started, and safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		select {
		case <-w.startedCh:
			<-w.doneCh
		default:
		}
		w.watcher.Close()
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	flushCh := make(chan struct{}, 1)
	pending := make(map[string]fsnotify.Op)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories join the watch set regardless of file patterns.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectories(event.Name); err != nil {
						slog.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}

			if !w.relevant(event) {
				continue
			}
			pending[event.Name] |= event.Op

			// Reset the debounce timer; stop and drain if it already fired.
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case flushCh <- struct{}{}:
				default:
				}
			})

		case <-flushCh:
			w.apply(pending)
			pending = make(map[string]fsnotify.Op)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

// apply reindexes or removes every file in one debounced batch.
func (w *Watcher) apply(pending map[string]fsnotify.Op) {
	if len(pending) == 0 {
		return
	}
	slog.Debug("applying watcher batch", "files", len(pending))

	for path, op := range pending {
		if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			if _, err := os.Stat(path); err != nil {
				w.engine.RemovePath(path)
				continue
			}
		}
		if _, err := w.engine.IndexFile(path); err != nil {
			slog.Warn("reindex failed", "file", path, "error", err)
		}
	}
}

// relevant filters events down to tracked MATLAB files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.discovery.Matches(event.Name)
}

// addDirectories walks dir and registers it and every non-ignored
// subdirectory with the fsnotify watcher.
func (w *Watcher) addDirectories(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if path != dir && w.discovery.ignoredDir(w.discovery.relPath(path)) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
