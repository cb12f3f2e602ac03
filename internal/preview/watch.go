package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/logfields"
)

// watcher wraps fsnotify with the paths a project rebuild depends on.
type watcher struct {
	fs         *fsnotify.Watcher
	configFile string
	outputDir  string
}

func (w *watcher) close() error { return w.fs.Close() }

// newWatcher watches the docs directory, the theme directories and the
// configuration file.
func (s *Server) newWatcher() (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create file watcher").Build()
	}
	cfg := s.config()
	w := &watcher{fs: fw}
	w.outputDir, _ = filepath.Abs(cfg.Resolve(cfg.OutputDir))

	for _, dir := range watchDirs(cfg) {
		if err := s.addDirsRecursive(w, dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	if p := cfg.Path(); p != "" {
		w.configFile, _ = filepath.Abs(p)
		if err := fw.Add(w.configFile); err != nil {
			s.logger.Warn("Watch add failed", logfields.Path(w.configFile), logfields.Error(err))
		}
	}
	return w, nil
}

func watchDirs(cfg *config.Config) []string {
	dirs := []string{cfg.Resolve(cfg.DocsDir)}
	if cfg.Theme.Dir != "" {
		dirs = append(dirs, cfg.Resolve(cfg.Theme.Dir))
	}
	if cfg.Theme.CustomDir != "" {
		dirs = append(dirs, cfg.Resolve(cfg.Theme.CustomDir))
	}
	return dirs
}

func (s *Server) addDirsRecursive(w *watcher, root string) error {
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return errors.NotFoundError("watch directory not found").
			WithContext("path", root).
			Build()
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == w.outputDir {
			return filepath.SkipDir
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			s.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// debouncer coalesces bursts of change events into one rebuild request.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	stopped  bool
	requests chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	if delay <= 0 {
		delay = config.DefaultDebounce
	}
	return &debouncer{delay: delay, requests: make(chan struct{}, 1)}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.requests <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// rebuildWorker serializes rebuilds. Requests arriving during a build collapse
// into one follow-up build.
func (s *Server) rebuildWorker(ctx context.Context, requests chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			s.logger.Info("Change detected; rebuilding site")
			if err := s.Rebuild(ctx, s.configChanged.Swap(false)); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// runPreviewLoop handles filesystem events until ctx ends or the server fails.
func (s *Server) runPreviewLoop(ctx context.Context, w *watcher, trigger func(), serveErr <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down preview server")
			return nil
		case err := <-serveErr:
			return errors.WrapError(err, errors.CategoryInternal, "preview server stopped").Build()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			s.handleFileEvent(w, ev, trigger)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// handleFileEvent processes a filesystem event and triggers a rebuild if needed.
func (s *Server) handleFileEvent(w *watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	abs, _ := filepath.Abs(ev.Name)
	if w.outputDir != "" && (abs == w.outputDir || strings.HasPrefix(abs, w.outputDir+string(filepath.Separator))) {
		return
	}
	if abs == w.configFile {
		s.configChanged.Store(true)
		// Editors that replace the file drop the watch.
		if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			_ = w.fs.Add(w.configFile)
		}
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = s.addDirsRecursive(w, ev.Name)
		}
	}
	s.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and emacs lock files.
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "4913"
}
