package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/apisan/internal/store"
)

func TestFSBFlagsNonLiteralMinority(t *testing.T) {
	var bodies []string
	for _, code := range []string{"p1();", "p2();", "p3();", "p4();"} {
		bodies = append(bodies, wrap(callNode(`printf("%d", x)`, code, eopNode())))
	}
	// a site passing a non-literal where most pass a format-like literal.
	bodies = append(bodies, wrap(callNode(`printf(fmt, x)`, "p5();", eopNode())))

	trees := decodeAll(t, bodies)
	reports := runChecker(t, FSB{}, trees, store.DefaultThreshold)

	require.NotEmpty(t, reports)
	assert.Contains(t, codes(reports), "p5();")
	for _, r := range reports {
		if r.Code == "p5();" {
			assert.InDelta(t, 0.8+0.3, r.Score, 1e-9, "print-keyword bonus must apply")
		}
	}
}
