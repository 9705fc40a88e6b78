package trace

import (
	"fmt"

	"github.com/standardbeagle/apisan/internal/constraint"
	"github.com/standardbeagle/apisan/internal/diag"
	"github.com/standardbeagle/apisan/internal/event"
	"github.com/standardbeagle/apisan/internal/expr"
	"github.com/standardbeagle/apisan/internal/symbol"
)

// DecodeForest parses a single framed body (the text between
// @SYM_EXEC_EXTRACTOR_BEGIN/_END) as a hierarchical document and returns one
// ExecTree per top-level NODE child, with constraint propagation already
// run over each tree. A malformed document aborts the whole body (returns
// an error); a malformed individual tree is logged and skipped, letting its
// siblings still come back (spec.md §4.2, §7 kind 3 vs 4).
func DecodeForest(body string) ([]*ExecTree, error) {
	root, err := decodeXMLTree(body)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	var trees []*ExecTree
	for _, child := range root.Children {
		if child.Tag != "NODE" {
			continue
		}
		execRoot, err := buildTree(child)
		if err != nil {
			diag.LogParse("discarding malformed tree: %v", err)
			continue
		}
		tree := &ExecTree{Root: execRoot}
		propagate(tree)
		trees = append(trees, tree)
	}
	return trees, nil
}

// buildTree converts one raw NODE's xmlNode subtree into an ExecNode tree,
// iteratively (explicit work stack), never by recursing once per input
// level: the extractor is known to emit documents deep enough to overflow a
// default goroutine stack (spec.md §4.2, §9).
func buildTree(root *xmlNode) (*ExecNode, error) {
	type frame struct {
		raw     *xmlNode
		nextIdx int // index into raw.Children being visited next (starts at 1: index 0 is EVENT)
		built   []*ExecNode
	}

	stack := []*frame{{raw: root, nextIdx: 1}}
	var result *ExecNode

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.nextIdx >= len(top.raw.Children) {
			node, err := finishNode(top.raw, top.built)
			if err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				result = node
			} else {
				parent := stack[len(stack)-1]
				parent.built = append(parent.built, node)
			}
			continue
		}

		child := top.raw.Children[top.nextIdx]
		top.nextIdx++
		if child.Tag != "NODE" {
			return nil, fmt.Errorf("unknown tag %q for NODE child", child.Tag)
		}
		stack = append(stack, &frame{raw: child, nextIdx: 1})
	}

	setParents(result)
	return result, nil
}

// setParents fixes up Parent back-references after the bottom-up build,
// iteratively.
func setParents(root *ExecNode) {
	stack := []*ExecNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range n.Children {
			c.Parent = n
			stack = append(stack, c)
		}
	}
}

// finishNode validates raw's structure (exactly one EVENT child at index 0,
// NODE children after it -- already checked by the caller) and builds the
// typed ExecNode.
func finishNode(raw *xmlNode, children []*ExecNode) (*ExecNode, error) {
	if len(raw.Children) == 0 || raw.Children[0].Tag != "EVENT" {
		return nil, fmt.Errorf("NODE missing leading EVENT child")
	}
	ev, err := parseEvent(raw.Children[0])
	if err != nil {
		return nil, err
	}
	return &ExecNode{Event: ev, Children: children}, nil
}

// parseEvent dispatches on the EVENT's KIND text and builds the
// corresponding typed event, tolerantly parsing any embedded expression
// text (a parse failure there yields symbol.Unknown, never a hard error --
// only an unrecognized KIND or an unexpected child tag is fatal to the
// tree, per spec.md §4.2/§7 kind 4).
func parseEvent(n *xmlNode) (event.Event, error) {
	var kindText string
	for _, c := range n.Children {
		if c.Tag == "KIND" {
			kindText = c.trimmedText()
			break
		}
	}

	switch kindText {
	case "@LOG_CALL":
		return parseCallEvent(n)
	case "@LOG_LOCATION":
		return parseLocationEvent(n)
	case "@LOG_EOP":
		return parseEOPEvent(n)
	case "@LOG_ASSUME":
		return parseAssumeEvent(n)
	default:
		return nil, fmt.Errorf("unknown event kind %q", kindText)
	}
}

func parseCallEvent(n *xmlNode) (event.Event, error) {
	var code string
	var callSym symbol.Symbol
	for _, c := range n.Children {
		switch c.Tag {
		case "KIND":
		case "CALL":
			callSym = parseSymbolTolerant(c.trimmedText())
		case "CODE":
			code = c.trimmedText()
		default:
			return nil, fmt.Errorf("unknown tag %q for CallEvent", c.Tag)
		}
	}
	callExpr, _ := callSym.(*symbol.Call)
	return event.NewCall(callExpr, code), nil
}

func parseLocationEvent(n *xmlNode) (event.Event, error) {
	var loc symbol.Symbol
	var typ, code string
	for _, c := range n.Children {
		switch c.Tag {
		case "KIND":
		case "LOC":
			loc = parseSymbolTolerant(c.trimmedText())
		case "TYPE":
			typ = c.trimmedText()
		case "CODE":
			code = c.trimmedText()
		default:
			return nil, fmt.Errorf("unknown tag %q for LocationEvent", c.Tag)
		}
	}
	return event.NewLocation(loc, typ, code), nil
}

func parseEOPEvent(n *xmlNode) (event.Event, error) {
	for _, c := range n.Children {
		if c.Tag != "KIND" {
			return nil, fmt.Errorf("unknown tag %q for EOPEvent", c.Tag)
		}
	}
	return event.NewEOP(), nil
}

func parseAssumeEvent(n *xmlNode) (event.Event, error) {
	var cond symbol.Symbol
	for _, c := range n.Children {
		switch c.Tag {
		case "KIND":
		case "COND":
			cond = parseSymbolTolerant(c.trimmedText())
		default:
			return nil, fmt.Errorf("unknown tag %q for AssumeEvent", c.Tag)
		}
	}
	return event.NewAssume(cond), nil
}

// parseSymbolTolerant never fails: on any parse error expr.Parse already
// returns symbol.Unknown.
func parseSymbolTolerant(text string) symbol.Symbol {
	return expr.Parse(text)
}

// propagate runs the constraint-propagation pass over tree (spec.md §4.4):
// depth-first, iteratively, attaching each node's ConstraintMgr before the
// tree is handed to a checker.
func propagate(tree *ExecTree) {
	type frame struct {
		node *ExecNode
		idx  int
	}
	tree.Root.Cmgr = constraint.New()
	stack := []*frame{{node: tree.Root, idx: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.idx >= len(top.node.Children) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.node.Children[top.idx]
		top.idx++

		child.Cmgr = feed(top.node)
		stack = append(stack, &frame{node: child, idx: 0})
	}
}

// feed implements the "first-binding-wins" rule: if node's event is Assume
// with a Constraint whose target is not yet bound in node's manager, the
// child inherits a freshly derived manager; otherwise it inherits node's
// manager by reference (no allocation).
func feed(node *ExecNode) *constraint.Mgr {
	assume, ok := node.Event.(*event.Assume)
	if !ok || assume.Cond == nil {
		return node.Cmgr
	}
	c, ok := assume.Cond.(*symbol.Constraint)
	if !ok {
		return node.Cmgr
	}
	if node.Cmgr.Has(c.Target) {
		return node.Cmgr
	}
	return node.Cmgr.Bind(c.Target, c.Ranges)
}
