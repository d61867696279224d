package script

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher reloads script files as they change on disk.
// Each created or modified .lua file is re-run through the host,
// replacing the commands it registers.
type DirWatcher struct {
	mu sync.Mutex

	host    *Host
	watcher *fsnotify.Watcher

	// onReload is called after every reload attempt, with the error
	// from loading if it failed. Called from the watch goroutine.
	onReload func(path string, err error)

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatchDir starts watching a directory of Lua scripts.
func WatchDir(host *Host, dir string, onReload func(path string, err error)) (*DirWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &DirWatcher{
		host:     host,
		watcher:  fsw,
		onReload: onReload,
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

func (w *DirWatcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
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
			if w.onReload != nil {
				w.onReload("", err)
			}
		}
	}
}

func (w *DirWatcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".lua") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	err := w.host.LoadFile(filepath.Clean(event.Name))
	if w.onReload != nil {
		w.onReload(event.Name, err)
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *DirWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.watcher.Close()
}
