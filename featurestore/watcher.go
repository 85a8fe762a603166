package featurestore

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/drivernote/drivernote/errors"
)

// RegistryWatcher watches feature_store.yaml for changes and reloads the
// client's registry. Intended for long-lived embedders; one-shot CLI runs
// don't need it.
type RegistryWatcher struct {
	client  *Client
	watcher *fsnotify.Watcher

	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration

	done chan struct{}
}

// WatchRegistry starts watching the client's registry file. Call Stop to
// release the watch.
func (c *Client) WatchRegistry() (*RegistryWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}

	registryPath := c.Registry().RegistryPath()
	// Watch the directory: editors replace files on save, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(registryPath)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watch %s", registryPath)
	}

	rw := &RegistryWatcher{
		client:         c,
		watcher:        watcher,
		debouncePeriod: 500 * time.Millisecond, // Debounce rapid file changes
		done:           make(chan struct{}),
	}

	go rw.watchLoop(registryPath)
	return rw, nil
}

// watchLoop monitors file system events for the registry file
func (rw *RegistryWatcher) watchLoop(registryPath string) {
	for {
		select {
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != filepath.Clean(registryPath) {
				continue
			}

			// Only reload on Write or Create events
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				rw.scheduleReload()
			}

		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			rw.client.logger.Warnw("Registry watcher error", "error", err)

		case <-rw.done:
			return
		}
	}
}

// scheduleReload debounces bursts of file events into one reload
func (rw *RegistryWatcher) scheduleReload() {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.debounceTimer != nil {
		rw.debounceTimer.Stop()
	}
	rw.debounceTimer = time.AfterFunc(rw.debouncePeriod, func() {
		if err := rw.client.reloadRegistry(); err != nil {
			rw.client.logger.Errorw("Registry reload failed",
				"repo", rw.client.repoPath,
				"error", err,
			)
		}
	})
}

// Stop ends the watch and releases the underlying watcher
func (rw *RegistryWatcher) Stop() error {
	rw.mu.Lock()
	if rw.debounceTimer != nil {
		rw.debounceTimer.Stop()
	}
	rw.mu.Unlock()

	close(rw.done)
	return rw.watcher.Close()
}
