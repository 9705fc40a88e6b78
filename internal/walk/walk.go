// Package walk enumerates every root-to-leaf path of a trace.ExecTree and
// invokes a callback once per path, iteratively (spec.md §4.5): input
// depth is untrusted, so the walk never recurses once per tree level.
package walk

import "github.com/standardbeagle/apisan/internal/trace"

// PathFunc is called once per root-to-leaf path, in DFS order, with the
// ordered node sequence from root to the EndOfPath leaf inclusive. The
// slice is only valid for the duration of the call: Walk reuses its
// backing array between calls, so a callback that needs to retain the
// path must copy it.
type PathFunc func(path []*trace.ExecNode)

// Walk visits every path of tree, calling visit once per EndOfPath leaf
// reached. Mirrors the original's delayed-visit stack discipline: an
// EndOfPath node is pushed onto the working path, the callback fires, then
// it is popped again before backtracking continues.
func Walk(tree *trace.ExecTree, visit PathFunc) {
	if tree == nil || tree.Root == nil {
		return
	}

	type frame struct {
		node *trace.ExecNode
		idx  int // next child index to descend into
	}

	var path []*trace.ExecNode
	stack := []frame{{node: tree.Root, idx: 0}}
	path = append(path, tree.Root)

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.node.IsEOP() {
			visit(path)
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}

		if top.idx >= len(top.node.Children) {
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}

		child := top.node.Children[top.idx]
		top.idx++
		stack = append(stack, frame{node: child, idx: 0})
		path = append(path, child)
	}
}

// Count returns the number of EndOfPath leaves visited, equal to the
// number of distinct paths Walk would invoke its callback for (spec.md
// §8's "path walker visits a path exactly once per EndOfPath leaf"
// invariant).
func Count(tree *trace.ExecTree) int {
	n := 0
	Walk(tree, func([]*trace.ExecNode) { n++ })
	return n
}
