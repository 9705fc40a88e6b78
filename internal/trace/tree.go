// Package trace decodes the framed trace-forest bodies the upstream
// symbolic-execution extractor emits (spec.md §4.1-§4.2) into typed
// ExecTrees, then runs constraint propagation over each one.
package trace

import (
	"github.com/standardbeagle/apisan/internal/constraint"
	"github.com/standardbeagle/apisan/internal/event"
)

// ExecNode is one node of an execution tree: one Event plus its ordered
// children. Cmgr is attached once the owning tree finishes constraint
// propagation (see propagate in decoder.go); it is nil before that.
type ExecNode struct {
	Event    event.Event
	Children []*ExecNode
	Parent   *ExecNode
	Cmgr     *constraint.Mgr
}

// IsEOP reports whether n's event is an end-of-path marker.
func (n *ExecNode) IsEOP() bool {
	_, ok := n.Event.(*event.EOP)
	return ok
}

// AsCall returns n's event as a *event.Call with a usable callee symbol,
// or nil, false otherwise.
func (n *ExecNode) AsCall() (*event.Call, bool) {
	c, ok := n.Event.(*event.Call)
	if !ok || !c.HasCall() {
		return nil, false
	}
	return c, true
}

// ExecTree owns the root of one decoded execution tree. Invariant (spec.md
// §3): every non-leaf has at least one child, and every leaf's event is
// EndOfPath.
type ExecTree struct {
	Root *ExecNode
}
