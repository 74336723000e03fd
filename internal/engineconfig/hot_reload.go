package engineconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher hot-reloads the configuration file and invokes a callback with the
// freshly parsed Config whenever the file changes on disk.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	onReload   func(*Config) error
	logger     *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewWatcher creates a configuration file watcher.
func NewWatcher(configPath string, onReload func(*Config) error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:    fw,
		configPath: configPath,
		onReload:   onReload,
		logger:     logrus.New(),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start begins watching the configuration file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("config watcher is already running")
	}
	if _, err := os.Stat(w.configPath); os.IsNotExist(err) {
		return fmt.Errorf("configuration file does not exist: %s", w.configPath)
	}

	dir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.isRunning = true
	w.logger.Info("configuration hot reload started")
	go w.watchLoop()
	return nil
}

// Stop stops watching the configuration file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return nil
	}
	w.cancel()
	w.isRunning = false
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	w.logger.Info("configuration hot reload stopped")
	return nil
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.isRunning
}

func (w *Watcher) watchLoop() {
	var lastReload time.Time
	const debounce = 500 * time.Millisecond

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.configPath) {
				continue
			}
			if time.Since(lastReload) < debounce {
				w.logger.Debug("ignoring rapid configuration change (debounced)")
				continue
			}

			switch event.Op {
			case fsnotify.Write, fsnotify.Create:
				w.logger.Info("configuration file changed, reloading")
				if err := w.reload(); err != nil {
					w.logger.WithError(err).Error("failed to reload configuration")
				} else {
					lastReload = time.Now()
				}
			case fsnotify.Remove:
				w.logger.Warn("configuration file removed, continuing to watch")
			case fsnotify.Rename:
				w.logger.Info("configuration file renamed, continuing to watch")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("file watcher error")
		}
	}
}

func (w *Watcher) reload() error {
	if err := w.waitForFileStable(); err != nil {
		return fmt.Errorf("failed to wait for file stability: %w", err)
	}

	cfg, err := NewLoader().Load(w.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if w.onReload != nil {
		if err := w.onReload(cfg); err != nil {
			return fmt.Errorf("reload callback failed: %w", err)
		}
	}
	w.logger.Info("configuration reloaded successfully")
	return nil
}

func (w *Watcher) waitForFileStable() error {
	const (
		maxWait        = 5 * time.Second
		checkInterval  = 100 * time.Millisecond
		stabilityCount = 3
	)

	start := time.Now()
	lastSize := int64(-1)
	stable := 0

	for time.Since(start) < maxWait {
		stat, err := os.Stat(w.configPath)
		if err != nil {
			if os.IsNotExist(err) {
				time.Sleep(checkInterval)
				continue
			}
			return fmt.Errorf("failed to stat configuration file: %w", err)
		}

		if stat.Size() == lastSize {
			stable++
			if stable >= stabilityCount {
				return nil
			}
		} else {
			stable = 0
			lastSize = stat.Size()
		}
		time.Sleep(checkInterval)
	}
	return fmt.Errorf("configuration file did not stabilize within %v", maxWait)
}
