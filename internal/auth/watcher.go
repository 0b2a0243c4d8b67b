package auth

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"spotify-mcp/pkg/logging"
)

// watcherPollInterval is the fallback poll cadence while waiting for a
// delegated login. The filesystem watcher normally fires first; polling
// covers editors and platforms with unreliable rename events.
const watcherPollInterval = 2 * time.Second

// WaitForStoredToken blocks until the shared token file holds a usable
// token, the context is cancelled, or its deadline passes. It is used
// after delegating a login to another process that owns the callback port:
// that process will write the token file when its flow completes.
func WaitForStoredToken(ctx context.Context, store *FileStore) error {
	if tok, _ := store.Load(); tok.Usable() {
		return nil
	}

	dir := filepath.Dir(store.Path())
	if err := os.MkdirAll(dir, 0700); err != nil {
		logging.Warn("AuthFlow", "Cannot create token directory for watching: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			logging.Debug("AuthFlow", "Token directory watch unavailable, relying on polling: %v", err)
			watcher = nil
		}
	} else {
		logging.Debug("AuthFlow", "Filesystem watcher unavailable, relying on polling: %v", err)
		watcher = nil
	}

	ticker := time.NewTicker(watcherPollInterval)
	defer ticker.Stop()

	var events chan fsnotify.Event
	if watcher != nil {
		events = watcher.Events
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case ev := <-events:
			if ev.Name != store.Path() {
				continue
			}
		}

		if tok, _ := store.Load(); tok.Usable() {
			return nil
		}
	}
}
