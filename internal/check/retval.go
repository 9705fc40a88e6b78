package check

import (
	"github.com/standardbeagle/apisan/internal/rank"
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
)

// RetVal is rvchk: for each call site, key = callee name, context = the
// immutable constraint bound to the call's own return value (or ⊥). A
// call that is the penultimate node of its path and has no bound
// constraint is skipped -- the wrapper-tail heuristic (spec.md §4.7).
type RetVal struct{}

func (RetVal) Name() string { return "rvchk" }

func (RetVal) NewContext() Context {
	return &retValContext{Context: store.NewContext()}
}

func (RetVal) ProcessPath(c Context, path []*trace.ExecNode) {
	ctx := c.(*retValContext)
	cmgr := path[len(path)-1].Cmgr
	for i, node := range path {
		call, ok := node.AsCall()
		if !ok {
			continue
		}
		key := call.Callee.Name()
		code := call.Code

		k, bound := cmgr.GetKey(call.Callee)
		if !bound {
			if i == len(path)-2 {
				continue
			}
			ctx.Add(key, "", code)
			continue
		}
		ctx.Add(key, string(k), code)
	}
}

func (RetVal) Finalize(ctx Context) Context { return defaultFinalize(ctx) }

func (RetVal) Rank(reports []store.BugReport) []store.BugReport {
	for i := range reports {
		if rank.IsAlloc(reports[i].Key) {
			reports[i].Score += 0.3
		}
	}
	return rankByScoreDesc(reports)
}

// retValContext replicates the original RetValContext.get_bugs: for each
// key it shrinks a running "diff" set (starting as the full total) by
// subtracting every context's codes once that context's score clears the
// threshold, then -- once every context has been visited -- reports
// whatever remains in diff. The context attached to each resulting
// BugReport is whichever context key was iterated LAST for that key, not
// necessarily the one that produced it: this mirrors an apparent
// accident in the original that spec.md explicitly documents as
// tolerated (tests must assert only the bug's code, not its ctx field).
type retValContext struct{ *store.Context }

func (c *retValContext) Merge(other Context) {
	o := other.(*retValContext)
	c.Context.Merge(o.Context)
}

func (c *retValContext) GetBugs(threshold float64) []store.BugReport {
	var bugs []store.BugReport
	for _, key := range c.CtxUses.Keys() {
		total := c.TotalUses.Get(key)
		totalSize := total.Size()
		if totalSize == 0 {
			continue
		}

		diff := make(map[string]bool, totalSize)
		for _, v := range total.Values() {
			diff[v.(string)] = true
		}
		scores := make(map[string]float64)

		inner := c.CtxUses.Get(key)
		var lastCtx string
		for _, ctxKey := range inner.Keys() {
			lastCtx = ctxKey
			codes := inner.Get(ctxKey)
			score := float64(codes.Size()) / float64(totalSize)
			if score < threshold || score >= 1 {
				continue
			}
			for _, v := range codes.Values() {
				delete(diff, v.(string))
			}
			for code := range diff {
				scores[code] = score
			}
		}

		if len(diff) != totalSize {
			// walk total (a sorted set) rather than the diff map so the
			// emitted order does not depend on map iteration.
			for _, v := range total.Values() {
				code := v.(string)
				if !diff[code] {
					continue
				}
				bugs = append(bugs, store.BugReport{Score: scores[code], Code: code, Key: key, Ctx: lastCtx})
			}
		}
	}
	return bugs
}
