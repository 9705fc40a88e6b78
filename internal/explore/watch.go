package explore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/apisan/internal/diag"
	"github.com/standardbeagle/apisan/internal/store"
)

// Watch re-runs ExploreParallel whenever a file under root changes,
// debounced by the project's WatchDebounceMs, and reports the new bug
// list to onBugs. It blocks until ctx is cancelled. Mirrors the teacher's
// FileWatcher/eventDebouncer pair, collapsed to this package's single
// re-explore action instead of incremental index updates.
func (e *Explorer) Watch(ctx context.Context, root string, onBugs func([]store.BugReport, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursiveWatches(watcher, root); err != nil {
		return err
	}

	debounce := time.Duration(e.Config.Explore.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	var mu sync.Mutex
	var timer *time.Timer
	rerun := func() {
		diag.LogExplore("watch: re-exploring %s", root)
		bugs, err := e.ExploreParallel(ctx, root)
		onBugs(bugs, err)
	}

	// Run once immediately so the caller has a baseline before the first
	// file system event arrives.
	rerun()

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, rerun)
			mu.Unlock()

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			diag.LogExplore("watch error: %v", watchErr)
		}
	}
}

// addRecursiveWatches registers every directory under root with watcher,
// skipping symlinked directories the same way DiscoverFiles does.
func addRecursiveWatches(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
