// Package watch turns filesystem and clock events into detector input for
// the long-running watch command.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/doeshing/shai-sense/internal/pkg/logger"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Handler receives events on the goroutine that called Run, so callbacks
// may touch single-owner state without locking.
type Handler struct {
	FileCreated func(path string)
	Tick        func(now time.Time)
}

// Watcher reports files created directly inside one directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	logger  ports.Logger
}

// New starts watching dir.
func New(dir string, log ports.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{watcher: w, dir: dir, logger: log}, nil
}

// Run dispatches events until ctx is done or the watcher is closed. Tick is
// called every interval when both are set.
func (w *Watcher) Run(ctx context.Context, h Handler, interval time.Duration) error {
	var tick <-chan time.Time
	if h.Tick != nil && interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == 0 || ignored(event.Name) {
				continue
			}
			w.logger.Debug("file created", map[string]interface{}{"path": event.Name})
			if h.FileCreated != nil {
				h.FileCreated(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", map[string]interface{}{"error": err.Error()})
		case now := <-tick:
			h.Tick(now)
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// ignored filters editor swap and backup files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, "~") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasSuffix(base, ".tmp")
}
