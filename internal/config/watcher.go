package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"supportchat/internal/logging"
)

// Watcher reloads the config file whenever it changes on disk and hands the
// new, validated config to a callback. Invalid or unreadable files are
// logged and skipped; the previous config stays in effect.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onChange func(*Config)
	debounce time.Duration
	dirty    time.Time
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for path. The parent directory is watched so
// editors that replace the file atomically are still observed.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.ConfigInfo("watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		select {
		case <-w.stopCh:
		default:
			close(w.stopCh)
		}
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		logging.ConfigWarn("error closing watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.ConfigWarn("watcher error: %v", err)
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	w.dirty = time.Now()
	w.mu.Unlock()
}

// flush reloads once the file has been quiet for the debounce window.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.dirty.IsZero() || time.Since(w.dirty) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirty = time.Time{}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		logging.ConfigWarn("reload failed: %v", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		logging.ConfigWarn("reload rejected: %v", err)
		return
	}
	logging.ConfigInfo("config reloaded from %s", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
