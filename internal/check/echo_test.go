package check

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/apisan/internal/store"
)

func TestEchoNeverReportsBugs(t *testing.T) {
	bodies := []string{
		wrap(callNode("foo()", "f1();", eopNode())),
		wrap(callNode("foo()", "f2();", eopNode())),
		wrap(callNode("bar()", "b1();", eopNode())),
	}
	trees := decodeAll(t, bodies)
	reports := runChecker(t, Echo{}, trees, store.DefaultThreshold)
	assert.Empty(t, reports)
}
