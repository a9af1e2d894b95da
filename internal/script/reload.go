package script

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Load runs the main script and remembers its path for Watch and reload.
func (h *Host) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	h.mainPath = abs
	return h.RunFile(abs)
}

// MainPath returns the path given to Load, or "".
func (h *Host) MainPath() string {
	return h.mainPath
}

// Watch starts watching the main script for changes. The directory is
// watched rather than the file so editors that replace the file on save
// are still seen. Changes only mark the script dirty; ReloadIfChanged
// performs the reload on the caller's goroutine.
func (h *Host) Watch() error {
	if h.IsClosed() {
		return ErrClosed
	}
	if h.mainPath == "" {
		return ErrNoMainScript
	}
	if h.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("script watch: %w", err)
	}
	if err := w.Add(filepath.Dir(h.mainPath)); err != nil {
		_ = w.Close()
		return fmt.Errorf("script watch: %w", err)
	}

	h.watcher = w
	h.done = make(chan struct{})
	h.wg.Add(1)
	go h.watchLoop(w, h.mainPath)

	h.logger.Debug("watching %s", h.mainPath)
	return nil
}

func (h *Host) watchLoop(w *fsnotify.Watcher, path string) {
	defer h.wg.Done()

	const mask = fsnotify.Write | fsnotify.Create | fsnotify.Rename

	for {
		select {
		case <-h.done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&mask == 0 || filepath.Clean(ev.Name) != path {
				continue
			}
			h.dirty.Store(true)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			h.logger.Warn("script watch: %v", err)
		}
	}
}

// Changed reports whether the main script changed since the last reload.
// It is safe to call from any goroutine.
func (h *Host) Changed() bool {
	return h.dirty.Load()
}

// ReloadIfChanged re-runs the main script if it changed on disk. Listeners
// registered by the previous run are removed first so a reload does not
// register them twice. It reports whether a reload happened.
func (h *Host) ReloadIfChanged() (bool, error) {
	if !h.dirty.Swap(false) {
		return false, nil
	}
	if h.mainPath == "" {
		return false, nil
	}

	h.dropSubscriptions()
	h.logger.Info("reloading %s", h.mainPath)

	if err := h.RunFile(h.mainPath); err != nil {
		var serr *Error
		if errors.As(err, &serr) {
			err = serr.Err
		}
		return true, &Error{Op: "reload", Source: h.mainPath, Err: err}
	}
	return true, nil
}
