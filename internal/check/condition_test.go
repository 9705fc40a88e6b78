package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/apisan/internal/store"
)

func TestConditionFlagsUnusualSurroundingCall(t *testing.T) {
	var bodies []string
	for _, code := range []string{"f1();", "f2();", "f3();", "f4();"} {
		bodies = append(bodies, wrap(callNode("foo()", code, callNode("bar()", "b();", eopNode()))))
	}
	// one path where foo() is paired with a different call entirely.
	bodies = append(bodies, wrap(callNode("foo()", "f5();", callNode("baz()", "z();", eopNode()))))

	trees := decodeAll(t, bodies)
	reports := runChecker(t, Condition{}, trees, store.DefaultThreshold)

	require.NotEmpty(t, reports)
	assert.Contains(t, codes(reports), "f5();")
}
