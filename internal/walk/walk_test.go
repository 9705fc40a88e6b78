package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/apisan/internal/trace"
)

func decodeOne(t *testing.T, body string) *trace.ExecTree {
	t.Helper()
	trees, err := trace.DecodeForest(body)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	return trees[0]
}

func TestWalkSinglePath(t *testing.T) {
	body := `<DOC><NODE><EVENT><KIND>@LOG_CALL</KIND><CALL>foo()</CALL><CODE>foo();</CODE></EVENT>` +
		`<NODE><EVENT><KIND>@LOG_EOP</KIND></EVENT></NODE></NODE></DOC>`
	tree := decodeOne(t, body)

	var paths [][]string
	Walk(tree, func(path []*trace.ExecNode) {
		var kinds []string
		for _, n := range path {
			if n.IsEOP() {
				kinds = append(kinds, "eop")
			} else {
				kinds = append(kinds, "call")
			}
		}
		paths = append(paths, kinds)
	})

	require.Len(t, paths, 1)
	assert.Equal(t, []string{"call", "eop"}, paths[0])
}

func TestWalkBranchingTreeVisitsEachLeafOnce(t *testing.T) {
	body := `<DOC><NODE><EVENT><KIND>@LOG_CALL</KIND><CALL>root()</CALL><CODE>root();</CODE></EVENT>` +
		`<NODE><EVENT><KIND>@LOG_EOP</KIND></EVENT></NODE>` +
		`<NODE><EVENT><KIND>@LOG_EOP</KIND></EVENT></NODE>` +
		`<NODE><EVENT><KIND>@LOG_EOP</KIND></EVENT></NODE>` +
		`</NODE></DOC>`
	tree := decodeOne(t, body)

	count := Count(tree)
	assert.Equal(t, 3, count)
}

func TestWalkSingleEOPRoot(t *testing.T) {
	body := `<DOC><NODE><EVENT><KIND>@LOG_EOP</KIND></EVENT></NODE></DOC>`
	tree := decodeOne(t, body)
	assert.Equal(t, 1, Count(tree))
}
