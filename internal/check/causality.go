package check

import (
	"github.com/standardbeagle/apisan/internal/rank"
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
)

// Causality is cpair: for each call site, key = (callee, bound
// constraint); every OTHER call name seen later on the same path is
// intersected across every path that reaches this same (key, code) pair,
// and each surviving call name becomes a context under which the call
// site's code is recorded as evidence. A bug is a (key, code) whose
// surviving later-call set omits a call name most other paths agree on
// (e.g. malloc() that isn't followed by free() on most paths).
type Causality struct{}

func (Causality) Name() string { return "cpair" }

func (Causality) NewContext() Context {
	return &causalityContext{
		Context: store.NewContext(),
		entries: make(map[causalityEntry]map[string]bool),
	}
}

func (Causality) ProcessPath(c Context, path []*trace.ExecNode) {
	ctx := c.(*causalityContext)
	cmgr := path[len(path)-1].Cmgr

	for i, node := range path {
		call, ok := node.AsCall()
		if !ok {
			continue
		}
		calleeName := call.Callee.Name()
		code := call.Code

		var keyStr string
		if k, bound := cmgr.GetKey(call.Callee); bound {
			keyStr = encodeKey(calleeName, string(k))
		} else {
			keyStr = encodeKey(calleeName, bottom)
		}

		later := make(map[string]bool)
		for j := i + 1; j < len(path); j++ {
			other, ok := path[j].AsCall()
			if !ok {
				continue
			}
			if other.Callee.Name() != calleeName {
				later[other.Callee.Name()] = true
			}
		}
		ctx.addOrIntersect(keyStr, later, code)
	}
}

func (Causality) Finalize(c Context) Context {
	ctx := c.(*causalityContext)
	ctx.flush()
	return ctx
}

func (Causality) Rank(reports []store.BugReport) []store.BugReport {
	for i := range reports {
		parts := decodeKey(reports[i].Key)
		calleeName := parts[0]
		ctxName := reports[i].Ctx

		switch {
		case rank.IsAlloc(calleeName) && rank.IsDealloc(ctxName):
			reports[i].Score += 0.5
		case rank.IsLock(calleeName) && rank.IsUnlock(ctxName):
			reports[i].Score += 0.5
		case rank.IsDealloc(ctxName):
			reports[i].Score += 0.3
		}
	}
	return rankByScoreDesc(reports)
}

// causalityEntry is the (key, code) pair add_or_intersect groups by in the
// original, before the per-entry value sets are flushed to the store.
type causalityEntry struct {
	key, code string
}

// causalityContext buffers (key, code) -> set-of-later-call-names in
// entries, intersecting repeated inserts for the same entry, until
// Finalize flushes every entry into the shared store.Context (mirroring
// add_or_intersect/add_all).
type causalityContext struct {
	*store.Context
	entries map[causalityEntry]map[string]bool
}

func (c *causalityContext) addOrIntersect(key string, values map[string]bool, code string) {
	entry := causalityEntry{key: key, code: code}
	existing, ok := c.entries[entry]
	if !ok {
		c.entries[entry] = values
		return
	}
	for v := range existing {
		if !values[v] {
			delete(existing, v)
		}
	}
}

func (c *causalityContext) flush() {
	for entry, values := range c.entries {
		for v := range values {
			c.Context.Add(entry.key, v, entry.code)
		}
		c.Context.Add(entry.key, "", entry.code)
	}
}

func (c *causalityContext) Merge(other Context) {
	o := other.(*causalityContext)
	c.Context.Merge(o.Context)
}
