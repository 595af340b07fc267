package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 250 * time.Millisecond

// Watcher reloads the configuration whenever its YAML file changes and hands
// the new value to the registered callbacks. Invalid files are logged and
// ignored; the previous configuration stays current.
type Watcher struct {
	path      string
	config    *Config
	callbacks []func(*Config)
	mu        sync.RWMutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewWatcher starts watching path. The containing directory is watched so
// that editors replacing the file by rename are noticed too.
func NewWatcher(path string, initial *Config, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		config:  initial,
		logger:  logger,
		watcher: fsWatcher,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("Configuration hot reloading enabled", zap.String("file", abs))
	return w, nil
}

// OnChange registers a callback to be called when configuration changes.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.done
	})
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	defer w.watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Debug("Configuration file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			w.logger.Info("Stopping configuration watcher")
			return
		}
	}
}

func (w *Watcher) reload() {
	select {
	case <-w.stopCh:
		return
	default:
	}

	next, err := LoadFrom(w.path)
	if err != nil {
		w.logger.Error("Ignoring invalid configuration", zap.Error(err))
		return
	}

	w.mu.Lock()
	prev := w.config
	w.config = next
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	if prev.Logging.Level != next.Logging.Level {
		w.logger.Info("Log level changed",
			zap.String("from", prev.Logging.Level),
			zap.String("to", next.Logging.Level),
		)
	}

	for i, cb := range callbacks {
		w.notify(i, cb, next)
	}
}

func (w *Watcher) notify(idx int, cb func(*Config), cfg *Config) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Callback panicked",
				zap.Int("callback_index", idx),
				zap.Any("panic", r),
			)
		}
	}()
	cb(cfg)
}
