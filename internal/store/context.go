package store

// BugReport is one flagged minority deviation: Key and Ctx are the
// checker's encoded strings, Code is the evidence code of the offending
// call/location site.
type BugReport struct {
	Score float64
	Code  string
	Key   string
	Ctx   string
}

// DefaultThreshold is the default of the global tunable governing bug
// extraction (spec.md §4.6/§6): a context's evidence fraction must fall in
// [threshold, 1) to be reported. 0.8 is the spec's documented default.
const DefaultThreshold = 0.8

// Context pairs a level-1 "every code ever seen for this key" store with a
// level-2 "codes seen under this particular context" store (spec.md §3).
type Context struct {
	TotalUses *Level1
	CtxUses   *Level2
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{TotalUses: NewLevel1(), CtxUses: NewLevel2()}
}

// Add records one occurrence of code under key, optionally scoped to ctx.
// When ctx is the empty string (⊥, "no context") only TotalUses gains code.
func (c *Context) Add(key, ctx, code string) {
	if ctx != "" {
		c.CtxUses.Add(key, ctx, code)
	}
	c.TotalUses.Add(key, code)
}

// Merge unions other into c. Commutative/associative since it bottoms out
// in set union.
func (c *Context) Merge(other *Context) {
	if other == nil {
		return
	}
	c.TotalUses.Merge(other.TotalUses)
	c.CtxUses.Merge(other.CtxUses)
}

// GetBugs implements the canonical inference of spec.md §4.6: for every
// (key, ctx) pair whose evidence fraction falls in [threshold, 1), every
// code present in the key's total population but absent from that
// context's population is reported.
func (c *Context) GetBugs(threshold float64) []BugReport {
	var bugs []BugReport
	for _, key := range c.CtxUses.Keys() {
		total := c.TotalUses.Get(key)
		totalSize := total.Size()
		if totalSize == 0 {
			continue
		}
		inner := c.CtxUses.Get(key)
		for _, ctx := range inner.Keys() {
			codes := inner.Get(ctx)
			score := float64(codes.Size()) / float64(totalSize)
			if score < threshold || score >= 1 {
				continue
			}
			for _, bug := range total.Values() {
				code := bug.(string)
				if codes.Contains(code) {
					continue
				}
				bugs = append(bugs, BugReport{Score: score, Code: code, Key: key, Ctx: ctx})
			}
		}
	}
	return bugs
}
