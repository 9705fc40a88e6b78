package check

import (
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
)

// Echo is a diagnostic checker with no minority-deviation logic: it
// records one evidence code per call site under its own callee name as
// both key and context, so every call is always "in agreement with
// itself" and GetBugs never fires. It exists purely so --checker=echo can
// confirm a trace corpus decodes, paths walk, and a Context round-trips
// through Process/Merge/Rank without any checker-specific semantics in
// the way -- useful for isolating a bad trace file from a bad checker.
type Echo struct{}

func (Echo) Name() string { return "echo" }

func (Echo) NewContext() Context {
	return &simpleContext{Context: store.NewContext()}
}

func (Echo) ProcessPath(c Context, path []*trace.ExecNode) {
	ctx := c.(*simpleContext)
	for _, node := range path {
		call, ok := node.AsCall()
		if !ok {
			continue
		}
		name := call.Callee.Name()
		ctx.Add(name, name, call.Code)
	}
}

func (Echo) Finalize(c Context) Context { return defaultFinalize(c) }

func (Echo) Rank(reports []store.BugReport) []store.BugReport {
	return rankByScoreDesc(reports)
}
