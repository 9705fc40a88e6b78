package check

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
)

func callNode(callExpr, code string, children ...string) string {
	inner := `<EVENT><KIND>@LOG_CALL</KIND><CALL>` + callExpr + `</CALL><CODE>` + code + `</CODE></EVENT>`
	for _, c := range children {
		inner += c
	}
	return `<NODE>` + inner + `</NODE>`
}

func assumeNode(cond string, children ...string) string {
	inner := `<EVENT><KIND>@LOG_ASSUME</KIND><COND>` + cond + `</COND></EVENT>`
	for _, c := range children {
		inner += c
	}
	return `<NODE>` + inner + `</NODE>`
}

func eopNode() string {
	return `<NODE><EVENT><KIND>@LOG_EOP</KIND></EVENT></NODE>`
}

func wrap(nodes ...string) string {
	body := `<DOC>`
	for _, n := range nodes {
		body += n
	}
	return body + `</DOC>`
}

// decodeTrees decodes every top-level tree present in body.
func decodeTrees(t *testing.T, body string) []*trace.ExecTree {
	t.Helper()
	trees, err := trace.DecodeForest(body)
	require.NoError(t, err)
	return trees
}

// runChecker processes every tree in trees with c, merges the resulting
// contexts, and returns the ranked bug reports at threshold.
func runChecker(t *testing.T, c Checker, trees []*trace.ExecTree, threshold float64) []store.BugReport {
	t.Helper()
	ctxs := make([]Context, 0, len(trees))
	for _, tree := range trees {
		ctxs = append(ctxs, Process(c, tree))
	}
	return Merge(c, threshold, ctxs)
}

func codes(reports []store.BugReport) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Code
	}
	return out
}
