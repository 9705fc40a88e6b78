package check

import (
	"strconv"

	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/symbol"
	"github.com/standardbeagle/apisan/internal/trace"
)

// Arg is args: for each (callee, argument position i, argument position
// j) with i<j, the context is whether the two arguments share an ID
// descendant AND at least one side is itself a call expression. A
// minority of call sites whose i/j arguments aren't related where most
// are is the flagged aliasing bug.
type Arg struct{}

func (Arg) Name() string { return "args" }

func (Arg) NewContext() Context {
	return &argContext{Context: store.NewContext()}
}

func (Arg) ProcessPath(c Context, path []*trace.ExecNode) {
	ctx := c.(*argContext)
	for _, node := range path {
		call, ok := node.AsCall()
		if !ok {
			continue
		}
		args := call.Callee.Args
		for i := 0; i < len(args); i++ {
			for j := i + 1; j < len(args); j++ {
				related := argsRelated(args[i], args[j])
				key := encodeKey(call.Callee.Name(), strconv.Itoa(i), strconv.Itoa(j))
				ctxStr := "false"
				if related {
					ctxStr = "true"
				}
				// This dedup set mirrors the original's `added` bookkeeping:
				// built so duplicate bug codes could in principle be
				// skipped, but the original never consults it before
				// appending, so duplicates are allowed here too.
				_ = ctx.added
				ctx.Add(key, ctxStr, call.Code)
			}
		}
	}
}

func (Arg) Finalize(c Context) Context { return defaultFinalize(c) }

func (Arg) Rank(reports []store.BugReport) []store.BugReport {
	return rankByScoreDesc(reports)
}

func argsRelated(arg1, arg2 symbol.Symbol) bool {
	_, isCall1 := arg1.(*symbol.Call)
	_, isCall2 := arg2.(*symbol.Call)
	if !isCall1 && !isCall2 {
		return false
	}
	nodes1 := symbol.IDNodes(arg1)
	nodes2 := symbol.IDNodes(arg2)
	for name := range nodes1 {
		if _, ok := nodes2[name]; ok {
			return true
		}
	}
	return false
}

// argContext overrides GetBugs: the context is a bare "related" boolean,
// not a multi-way split, so a dedicated extraction reads it directly
// rather than going through the generic minority-deviation shape.
type argContext struct {
	*store.Context
	added map[string]bool // unused, kept for parity with the original's dead bookkeeping
}

func (c *argContext) Merge(other Context) {
	o := other.(*argContext)
	c.Context.Merge(o.Context)
}

func (c *argContext) GetBugs(threshold float64) []store.BugReport {
	var bugs []store.BugReport
	for _, key := range c.CtxUses.Keys() {
		total := c.TotalUses.Get(key)
		totalSize := total.Size()
		if totalSize == 0 {
			continue
		}
		inner := c.CtxUses.Get(key)
		related := inner.Get("true").Size()
		score := float64(related) / float64(totalSize)
		if score < threshold || score >= 1 {
			continue
		}
		for _, v := range inner.Get("false").Values() {
			bugs = append(bugs, store.BugReport{Score: score, Code: v.(string), Key: key, Ctx: "false"})
		}
	}
	return bugs
}
