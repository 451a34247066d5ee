package patterns

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize rule file watcher")

// Watcher recompiles a rule file whenever it changes on disk.
type Watcher struct {
	path     string
	base     Definition
	onReload func(*Table)
	logger   *zap.Logger

	watcher  *fsnotify.Watcher
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for path. Each successful reload merges the
// file over base, compiles it and passes the Table to onReload.
func NewWatcher(path string, base Definition, onReload func(*Table), logger *zap.Logger) (*Watcher, error) {
	if onReload == nil {
		return nil, errors.New("onReload callback is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving rule file path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		path:     abs,
		base:     base.Clone(),
		onReload: onReload,
		logger:   logger,
		watcher:  fw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the directory holding the rule file so editors that replace
// the file by rename are still seen. It returns once the watch is registered.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching rule file directory: %w", err)
	}
	go w.run(ctx)
	return nil
}

// Stop ends the watch and waits for the event loop to exit. Safe to call more
// than once; Stop before Start only releases the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
}

// Done is closed when the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			w.Stop()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rule file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	def, err := LoadFile(w.path, w.base)
	if err != nil {
		w.logger.Warn("rule file reload failed, keeping previous rules",
			zap.String("path", w.path), zap.Error(err))
		return
	}
	table, err := Compile(def)
	if err != nil {
		w.logger.Warn("rule file invalid, keeping previous rules",
			zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("rule file reloaded", zap.String("path", w.path))
	w.onReload(table)
}
