// Package watch monitors a collection CSV file and triggers rebuilds when
// it changes.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write event
// before invoking the callback. Spreadsheet exports arrive as bursts of
// partial writes; rebuilding on each one wastes API budget.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a single collection file for modifications.
type Watcher struct {
	path     string
	debounce time.Duration
	callback func(path string)
	stopChan chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher that invokes callback with the watched path
// after the file changes and the debounce interval elapses.
func NewWatcher(path string, callback func(path string), options ...Option) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		callback: callback,
		stopChan: make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Start blocks watching the file until the context is cancelled or Stop is
// called. The parent directory is watched rather than the file itself so
// editors that replace the file on save (write to temp, rename over) keep
// triggering events.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log.Printf("[Watch] Monitoring %s for changes...", w.path)

	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopChan:
			return nil
		case event := <-watcher.Events:
			if !w.matches(event, target) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.callback(w.path)
		case err := <-watcher.Errors:
			log.Printf("[Watch] File watcher error: %v", err)
		}
	}
}

// Stop stops the watcher. Safe to call once.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

func (w *Watcher) matches(event fsnotify.Event, target string) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == target
}
