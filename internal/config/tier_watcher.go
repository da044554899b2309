// ABOUTME: Watches the tier catalog file and reloads it on change
// ABOUTME: Lets a long-running server pick up tier edits without a restart
package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/roadblock"
)

// DefaultReloadDebounce collapses the burst of events one save produces
const DefaultReloadDebounce = 200 * time.Millisecond

// TierWatcher reloads a tier catalog file whenever it changes
type TierWatcher struct {
	path     string
	onReload func(roadblock.Catalog)
	debounce time.Duration
	logger   *log.Logger

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// NewTierWatcher watches path. onReload receives every catalog that loads
// and validates; broken edits are logged and the previous catalog stays.
func NewTierWatcher(path string, onReload func(roadblock.Catalog), debounce time.Duration, logger *log.Logger) (*TierWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors replace files by rename, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return &TierWatcher{
		path:     filepath.Clean(path),
		onReload: onReload,
		debounce: debounce,
		logger:   logging.Component(logger, "tiers"),
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

// Start processes events until ctx is done or Stop is called
func (w *TierWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop closes the watcher
func (w *TierWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *TierWatcher) loop(ctx context.Context) {
	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			reload = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		case <-reload:
			reload = nil
			w.reload()
		}
	}
}

func (w *TierWatcher) reload() {
	catalog, err := roadblock.LoadTiers(w.path)
	if err != nil {
		w.logger.Error("tier reload failed, keeping previous catalog", "path", w.path, "error", err)
		return
	}
	w.logger.Info("tier catalog reloaded", "path", w.path, "tiers", len(catalog))
	w.onReload(catalog)
}
