package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chunkforge/chunkforge/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last change
// before triggering, so bulk copies produce one run instead of many.
const DefaultDebounce = 2 * time.Second

// Watcher observes a directory tree and invokes a callback after file
// changes settle.
type Watcher struct {
	scanner  *Scanner
	debounce time.Duration
}

// NewWatcher creates a watcher that reports changes to files the given
// scanner recognises.
func NewWatcher(scanner *Scanner, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{scanner: scanner, debounce: debounce}
}

// Watch blocks, calling onChange each time recognised files under dir
// change and the debounce window elapses. It returns when ctx is
// cancelled or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context, dir string, onChange func(ctx context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, dir); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) && isDir(event.Name) {
				if w.scanner.Excluded(event.Name) {
					continue
				}
				// New subdirectories need their own watch.
				if err := w.addRecursive(fw, event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
				continue
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("change detected: %s (%s)", event.Name, event.Op)
			pending = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := onChange(ctx); err != nil {
				logger.Warn("processing after change: %v", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return false
	}
	return w.scanner.Recognises(event.Name)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (strings.HasPrefix(d.Name(), ".") || w.scanner.Excluded(path)) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
