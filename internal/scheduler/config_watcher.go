package scheduler

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/topdoor/internal/groups"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

// DefaultWatchDebounce groups the burst of events one save produces.
const DefaultWatchDebounce = 250 * time.Millisecond

// ConfigWatcher reloads the configuration when config.json changes on
// disk. The directory is watched, not the file, because saves replace
// the file by rename.
type ConfigWatcher struct {
	manager  *groups.Manager
	path     string
	logger   logger.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	lastHash [sha256.Size]byte
	hasHash  bool
}

// NewConfigWatcher creates a watcher for the manager's config file
func NewConfigWatcher(manager *groups.Manager, log logger.Logger, debounce time.Duration) *ConfigWatcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &ConfigWatcher{
		manager:  manager,
		path:     manager.Store().Path(),
		logger:   log,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start registers the watch and processes events in the background
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(cw.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(cw.path), err)
	}
	cw.watcher = w
	cw.remember()

	cw.logger.Info("watching configuration file",
		logger.String("path", cw.path))

	go cw.loop(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (cw *ConfigWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopCh)
	})
	if cw.watcher != nil {
		<-cw.doneCh
	}
}

func (cw *ConfigWatcher) loop(ctx context.Context) {
	defer close(cw.doneCh)
	defer func() {
		_ = cw.watcher.Close()
	}()

	timer := time.NewTimer(cw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(cw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(cw.debounce)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("configuration watcher error",
				logger.Error(err))
		case <-timer.C:
			cw.process(ctx)
		case <-cw.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// process reloads when the file content differs from what was last seen.
func (cw *ConfigWatcher) process(ctx context.Context) {
	if !cw.remember() {
		return
	}
	cw.logger.Info("configuration changed on disk, reloading",
		logger.String("path", cw.path))
	cw.manager.Reload(ctx)
	// A reload may heal or rewrite the file.
	cw.remember()
}

// remember hashes the file and reports whether the hash changed.
func (cw *ConfigWatcher) remember() bool {
	raw, err := os.ReadFile(cw.path)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(raw)
	if cw.hasHash && sum == cw.lastHash {
		return false
	}
	cw.lastHash = sum
	cw.hasHash = true
	return true
}
