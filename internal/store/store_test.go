package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel1AutoInsertAndAdd(t *testing.T) {
	s := NewLevel1()
	s.Add("foo", "c1")
	s.Add("foo", "c2")
	assert.Equal(t, 2, s.Get("foo").Size())
	assert.Equal(t, 0, s.Get("bar").Size())
}

func TestLevel1MergeUnionsLeafSets(t *testing.T) {
	a := NewLevel1()
	a.Add("foo", "c1")
	b := NewLevel1()
	b.Add("foo", "c2")
	b.Add("baz", "c3")

	a.Merge(b)
	assert.Equal(t, 2, a.Get("foo").Size())
	assert.Equal(t, 1, a.Get("baz").Size())
}

func TestLevel2AutoInsertAndAdd(t *testing.T) {
	s := NewLevel2()
	s.Add("foo", "ctx1", "c1")
	assert.Equal(t, 1, s.Get("foo").Get("ctx1").Size())
	assert.Equal(t, 0, s.Get("foo").Get("ctx2").Size())
}

func TestLevel2MergeRecurses(t *testing.T) {
	a := NewLevel2()
	a.Add("foo", "ctx1", "c1")
	b := NewLevel2()
	b.Add("foo", "ctx1", "c2")
	b.Add("foo", "ctx2", "c3")

	a.Merge(b)
	assert.Equal(t, 2, a.Get("foo").Get("ctx1").Size())
	assert.Equal(t, 1, a.Get("foo").Get("ctx2").Size())
}

func TestContextAddWithBottomContextOnlyUpdatesTotal(t *testing.T) {
	c := NewContext()
	c.Add("foo", "", "c1")
	assert.Equal(t, 1, c.TotalUses.Get("foo").Size())
	assert.Equal(t, 0, len(c.CtxUses.Keys()))
}

func TestContextGetBugsFindsMinorityDeviation(t *testing.T) {
	c := NewContext()
	// 4 call sites constrained to [0,0], 1 unconstrained
	for i := 0; i < 4; i++ {
		code := "site" + string(rune('A'+i))
		c.Add("foo", "bound", code)
	}
	c.Add("foo", "", "site_unbound")

	bugs := c.GetBugs(DefaultThreshold)
	assert.Len(t, bugs, 1)
	assert.Equal(t, "site_unbound", bugs[0].Code)
	assert.Equal(t, "foo", bugs[0].Key)
	assert.InDelta(t, 0.8, bugs[0].Score, 1e-9)
}

func TestContextGetBugsSkipsWhenScoreIsUnity(t *testing.T) {
	c := NewContext()
	c.Add("foo", "bound", "s1")
	bugs := c.GetBugs(DefaultThreshold)
	assert.Empty(t, bugs)
}

func TestContextMergeIsCommutative(t *testing.T) {
	a1 := NewContext()
	a1.Add("foo", "bound", "s1")
	b1 := NewContext()
	b1.Add("foo", "", "s2")

	a2 := NewContext()
	a2.Add("foo", "bound", "s1")
	b2 := NewContext()
	b2.Add("foo", "", "s2")

	merged1 := NewContext()
	merged1.Merge(a1)
	merged1.Merge(b1)

	merged2 := NewContext()
	merged2.Merge(b2)
	merged2.Merge(a2)

	assert.ElementsMatch(t, merged1.GetBugs(DefaultThreshold), merged2.GetBugs(DefaultThreshold))
}
