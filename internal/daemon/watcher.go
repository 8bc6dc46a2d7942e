package daemon

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for a burst of file events to
// settle before requesting a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called from a single goroutine after changes settle.
// configChanged reports whether the configuration file was touched since the
// previous call.
type ChangeFunc func(ctx context.Context, configChanged bool)

// Watcher watches a content tree and a configuration file.
type Watcher struct {
	contentDir string
	configPath string
	debounce   time.Duration
	onChange   ChangeFunc
	logger     *slog.Logger

	fsw           *fsnotify.Watcher
	requests      chan struct{}
	configChanged atomic.Bool

	mu    sync.Mutex
	timer *time.Timer
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher watches every directory under contentDir and the directory
// holding configPath. configPath may be empty.
func NewWatcher(contentDir, configPath string, onChange ChangeFunc, opts ...WatcherOption) (*Watcher, error) {
	absContent, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve content directory").Build()
	}
	w := &Watcher{
		contentDir: absContent,
		debounce:   DefaultDebounce,
		onChange:   onChange,
		logger:     slog.Default(),
		requests:   make(chan struct{}, 1),
	}
	if configPath != "" {
		absConfig, err := filepath.Abs(configPath)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve config path").Build()
		}
		w.configPath = absConfig
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w.fsw = fsw

	if err := w.addDirsRecursive(w.contentDir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if w.configPath != "" {
		if err := fsw.Add(filepath.Dir(w.configPath)); err != nil {
			_ = fsw.Close()
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch config directory").
				WithContext("path", filepath.Dir(w.configPath)).
				Build()
		}
	}
	return w, nil
}

// Run processes file events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Watching for changes",
		logfields.Path(w.contentDir),
		logfields.File(w.configPath),
		slog.Int64("debounce_ms", w.debounce.Milliseconds()))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()

	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		_ = w.fsw.Close()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || shouldIgnoreEvent(event.Name) {
		return
	}

	if w.configPath != "" && filepath.Clean(event.Name) == w.configPath {
		if event.Has(fsnotify.Remove) {
			w.logger.Warn("Config file removed", logfields.File(event.Name))
			return
		}
		w.logger.Debug("Config file changed", logfields.File(event.Name), slog.String("op", event.Op.String()))
		w.configChanged.Store(true)
		w.trigger()
		return
	}

	if !within(w.contentDir, event.Name) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirsRecursive(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	w.logger.Debug("Content changed", logfields.File(event.Name), slog.String("op", event.Op.String()))
	w.trigger()
}

// trigger restarts the settle timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.requests <- struct{}{}:
		default:
		}
	})
}

// worker runs onChange serially. Requests arriving during a run collapse
// into one follow-up run.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.requests:
			w.onChange(ctx, w.configChanged.Swap(false))
		}
	}
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to walk content directory").
				WithContext("path", path).
				Build()
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", path).
				Build()
		}
		return nil
	})
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// shouldIgnoreEvent filters editor swap files, OS metadata and hidden files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"):
		return true
	case strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
