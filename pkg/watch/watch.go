// Package watch re-runs a callback when files in the project change.
// Events are debounced so one burst of saves triggers one run.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultIgnore lists directory names never worth re-running checks for.
var DefaultIgnore = []string{
	".git",
	".venv",
	"__pycache__",
	".mypy_cache",
	".ruff_cache",
	".pytest_cache",
}

const defaultDebounce = 500 * time.Millisecond

// Watcher watches a project directory tree and invokes a callback after
// changes settle.
type Watcher struct {
	Dir      string
	Debounce time.Duration // quiet period before the callback fires
	Ignore   []string      // extra directory names to skip
}

// Run watches until ctx is cancelled, calling fn after each debounced
// change burst. fn runs on the watch goroutine, so runs never overlap.
// A callback error stops the watch and is returned.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	ignore := w.ignoreSet()
	if err := addRecursive(fsw, w.Dir, ignore); err != nil {
		return fmt.Errorf("add directories to watcher: %w", err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	timer := time.NewTimer(debounce)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if skipPath(w.Dir, event.Name, ignore) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			// New directories join the watch so later changes inside
			// them are seen.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = fsw.Add(event.Name)
				}
			}
			slog.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) ignoreSet() map[string]bool {
	set := make(map[string]bool, len(DefaultIgnore)+len(w.Ignore))
	for _, name := range DefaultIgnore {
		set[name] = true
	}
	for _, name := range w.Ignore {
		set[name] = true
	}
	return set
}

// addRecursive adds all directories under root to the watcher, skipping
// ignored subtrees.
func addRecursive(fsw *fsnotify.Watcher, root string, ignore map[string]bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't access
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignore[d.Name()] {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func skipPath(root, path string, ignore map[string]bool) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, elem := range strings.Split(rel, string(filepath.Separator)) {
		if ignore[elem] {
			return true
		}
	}
	return false
}
