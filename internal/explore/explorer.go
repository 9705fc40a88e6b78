// Package explore walks a trace corpus and drives one Checker over every
// file in it (spec.md §5/§7): discover files matching the project's
// include/exclude globs, decode and process each file's trees, then merge
// every tree's Context into the checker's final ranked bug list. A
// per-file or per-tree failure is logged and skipped rather than aborting
// the whole run, mirroring apisan/parse/explorer.py's Explorer.
package explore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/apisan/internal/apisanerr"
	"github.com/standardbeagle/apisan/internal/check"
	"github.com/standardbeagle/apisan/internal/config"
	"github.com/standardbeagle/apisan/internal/diag"
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
)

// Explorer drives one Checker over a trace corpus rooted at a project
// directory, per the project's Config.
type Explorer struct {
	Checker check.Checker
	Reader  *trace.Reader
	Config  *config.Config
}

// New returns an Explorer using the default trace.Reader (local/afs mix).
func New(checker check.Checker, reader *trace.Reader, cfg *config.Config) *Explorer {
	if reader == nil {
		reader = trace.NewReader(nil)
	}
	return &Explorer{Checker: checker, Reader: reader, Config: cfg}
}

// DiscoverFiles walks root and returns every file path matching the
// config's Include globs and none of its Exclude globs, honoring
// FollowSymlinks (default false, mirroring the original's plain os.walk
// which never follows symlinked directories either).
func (e *Explorer) DiscoverFiles(root string) ([]string, error) {
	var files []string
	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 && !e.Config.Explore.FollowSymlinks {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if !e.matchesAny(rel, e.Config.Include) {
			return nil
		}
		if e.matchesAny(rel, e.Config.Exclude) {
			return nil
		}
		files = append(files, path)
		return nil
	}
	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, apisanerr.New(apisanerr.KindIO, err).WithPath(root)
	}
	return files, nil
}

func (e *Explorer) matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Explore runs sequentially, file by file, tree by tree.
func (e *Explorer) Explore(ctx context.Context, root string) ([]store.BugReport, error) {
	files, err := e.DiscoverFiles(root)
	if err != nil {
		return nil, err
	}

	var ctxs []check.Context
	var errs []error
	for _, f := range files {
		fileCtxs, err := e.exploreFile(ctx, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ctxs = append(ctxs, fileCtxs...)
	}

	bugs := check.Merge(e.Checker, e.Config.Analysis.Threshold, ctxs)
	return bugs, multiErrOrNil(errs)
}

// ExploreParallel runs with one worker per file, bounded to CPU count,
// mirroring explore_parallel's process-pool-per-file boundary (spec.md
// §5): a Context is never shared across workers, and the only shared
// mutable state anywhere in the pipeline is event.nextEventID's atomic
// counter, already safe for concurrent use.
func (e *Explorer) ExploreParallel(ctx context.Context, root string) ([]store.BugReport, error) {
	files, err := e.DiscoverFiles(root)
	if err != nil {
		return nil, err
	}

	workers := e.Config.Explore.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var mu sync.Mutex
	var ctxs []check.Context
	var errs []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, f := range files {
		f := f
		g.Go(func() error {
			fileCtxs, err := e.exploreFile(gctx, f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			ctxs = append(ctxs, fileCtxs...)
			return nil
		})
	}
	// errgroup only ever returns an error here if a Go func itself
	// returned one, which exploreFile never does -- failures are
	// collected into errs instead so one bad file never aborts the rest.
	_ = g.Wait()

	bugs := check.Merge(e.Checker, e.Config.Analysis.Threshold, ctxs)
	return bugs, multiErrOrNil(errs)
}

// multiErrOrNil wraps apisanerr.NewMultiError so callers returning the
// plain error interface never get back a non-nil interface wrapping a
// nil *MultiError (NewMultiError returns (*MultiError)(nil) when errs is
// empty, which the bare pointer assignment would otherwise smuggle
// through as a "non-nil" error).
func multiErrOrNil(errs []error) error {
	me := apisanerr.NewMultiError(errs)
	if me == nil {
		return nil
	}
	return me
}

func (e *Explorer) exploreFile(ctx context.Context, path string) ([]check.Context, error) {
	trees, err := e.Reader.ReadFile(ctx, path)
	if err != nil {
		diag.LogExplore("skipping %s: %v", path, err)
		return nil, apisanerr.New(apisanerr.KindIO, err).WithPath(path)
	}

	ctxs := make([]check.Context, 0, len(trees))
	for i, tree := range trees {
		func() {
			defer func() {
				if r := recover(); r != nil {
					diag.LogCheck("%s: tree %d: checker %s panicked, skipping tree: %v", path, i, e.Checker.Name(), r)
				}
			}()
			ctxs = append(ctxs, check.Process(e.Checker, tree))
		}()
	}
	diag.LogExplore("explored %s (%d trees)", path, len(trees))
	return ctxs, nil
}
