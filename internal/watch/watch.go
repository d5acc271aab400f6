// Package watch reports batches of changed source files.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bennypowers.dev/tplmin/internal/collections"
	"bennypowers.dev/tplmin/internal/log"
	"github.com/fsnotify/fsnotify"
)

// Handler receives the changed paths of one debounced batch, sorted
type Handler func(paths []string)

// Watcher watches directory trees for writes to matching files
type Watcher struct {
	fs    *fsnotify.Watcher
	match func(path string) bool
	delay time.Duration
}

// New creates a watcher. match selects the files worth reporting; delay is
// how long a batch stays open after its last event.
func New(match func(path string) bool, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{fs: fsw, match: match, delay: delay}, nil
}

// AddRecursive watches root and every directory below it, except hidden
// directories and node_modules
func (w *Watcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

// Run delivers batches to handler until ctx is done
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	pending := collections.NewSet[string]()
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := w.AddRecursive(event.Name); err != nil {
						log.Warn("%v", err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.match(event.Name) {
				continue
			}
			pending.Add(event.Name)
			timer.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := pending.Sorted()
			pending = collections.NewSet[string]()
			handler(paths)
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}
