package check

import (
	"github.com/standardbeagle/apisan/internal/constraint"
	"github.com/standardbeagle/apisan/internal/event"
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
)

// Condition is cond: for every ordered pair of distinct calls on a path,
// key = (call_i's name, its bound constraint) and context = (call_j's
// name, its bound constraint), evidenced by call_i's code. This surfaces
// calls whose surrounding condition most paths agree on but a minority
// don't (e.g. a call usually preceded by a NULL check).
type Condition struct{}

func (Condition) Name() string { return "cond" }

func (Condition) NewContext() Context {
	return &simpleContext{Context: store.NewContext()}
}

func (Condition) ProcessPath(c Context, path []*trace.ExecNode) {
	ctx := c.(*simpleContext)
	cmgr := path[len(path)-1].Cmgr

	for i, node := range path {
		call, ok := node.AsCall()
		if !ok {
			continue
		}
		key := encodeKey(call.Callee.Name(), constraintStr(cmgr, call))
		code := call.Code

		for j, other := range path {
			if i == j {
				continue
			}
			otherCall, ok := other.AsCall()
			if !ok {
				continue
			}
			ctxKey := encodeKey(otherCall.Callee.Name(), constraintStr(cmgr, otherCall))
			ctx.Add(key, ctxKey, code)
		}
	}
}

func (Condition) Finalize(c Context) Context { return defaultFinalize(c) }

func (Condition) Rank(reports []store.BugReport) []store.BugReport {
	return rankByScoreDesc(reports)
}

// constraintStr returns call's bound-constraint key as a plain string, or
// the bottom sentinel when its callee symbol is unconstrained.
func constraintStr(cmgr *constraint.Mgr, call *event.Call) string {
	if k, bound := cmgr.GetKey(call.Callee); bound {
		return string(k)
	}
	return bottom
}

// simpleContext is the shared wrapper for checkers (cond, echo) that need
// nothing beyond the default store.Context.GetBugs.
type simpleContext struct{ *store.Context }

func (c *simpleContext) Merge(other Context) {
	o := other.(*simpleContext)
	c.Context.Merge(o.Context)
}
