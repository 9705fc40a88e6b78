// Package check implements the six bug-mining strategies (spec.md §4.7)
// that share the walk/store framework: each strategy populates a Context
// while the path walker visits every root-to-leaf path of a tree, then
// reshapes and ranks the Context's default bug extraction as needed.
package check

import (
	"sort"
	"strings"

	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
	"github.com/standardbeagle/apisan/internal/walk"
)

// Context is whatever a Checker accumulates while walking one tree's
// paths: every checker's Context wraps a *store.Context and most get its
// GetBugs via embedding unchanged; a few (retval, fsb, args, intovfl)
// override it with their own extraction rule.
type Context interface {
	Merge(other Context)
	GetBugs(threshold float64) []store.BugReport
}

// Checker is a closed strategy (spec.md §9: tagged union, exhaustive
// dispatch, not open inheritance -- there are exactly six, plus the
// diagnostic Echo checker).
type Checker interface {
	Name() string
	NewContext() Context
	ProcessPath(ctx Context, path []*trace.ExecNode)
	// Finalize runs once per tree, after every path has been visited
	// (most checkers return ctx unchanged; causality flushes its
	// intersected entries here).
	Finalize(ctx Context) Context
	Rank(reports []store.BugReport) []store.BugReport
}

// Process runs one Checker over one tree: walk every path, feed each one
// to ProcessPath, then Finalize. Mirrors Checker.process in the original
// (_initialize_process/_do_dfs/_finalize_process).
func Process(c Checker, tree *trace.ExecTree) Context {
	ctx := c.NewContext()
	walk.Walk(tree, func(path []*trace.ExecNode) {
		c.ProcessPath(ctx, path)
	})
	return c.Finalize(ctx)
}

// Merge concatenates every tree's Context (in whatever order the caller
// collected them -- merge is commutative/associative, spec.md §8), then
// asks the checker to extract and rank bugs from the result. Returns nil
// when ctxs is empty (no trees processed).
func Merge(c Checker, threshold float64, ctxs []Context) []store.BugReport {
	if len(ctxs) == 0 {
		return nil
	}
	merged := ctxs[0]
	for _, other := range ctxs[1:] {
		merged.Merge(other)
	}
	return c.Rank(merged.GetBugs(threshold))
}

// rankByScoreDesc is the terminal step of every checker's Rank: sort
// highest-score first, stable so equal scores keep their input order
// (spec.md §8's tie-breaking-by-stable-ordering requirement).
func rankByScoreDesc(reports []store.BugReport) []store.BugReport {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Score > reports[j].Score
	})
	return reports
}

// keySep separates the parts of a composite key/context before it is
// handed to the store, which only understands plain strings (see
// internal/store's doc comment).
const keySep = "\x1f"

func encodeKey(parts ...string) string {
	return strings.Join(parts, keySep)
}

func decodeKey(key string) []string {
	return strings.Split(key, keySep)
}

// bottom is the sentinel context string standing in for the original's
// None / ⊥: "no constraint bound" or "no context recorded".
const bottom = "⊥"

// defaultFinalize is used by every checker whose Context needs no
// post-walk transformation.
func defaultFinalize(ctx Context) Context { return ctx }
