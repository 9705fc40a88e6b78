package check

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/apisan/internal/rank"
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/symbol"
	"github.com/standardbeagle/apisan/internal/trace"
)

// formatSpecifiers are the printf-style conversions that mark a string
// argument as format-like rather than a plain literal payload.
var formatSpecifiers = []string{"%d", "%p", "%x", "%s", "%u", "%c"}

func isFormatString(s string) bool {
	for _, f := range formatSpecifiers {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// FSB is fsb: for each (callee, argument position), the context is
// whether that argument is a string-literal and, if so, whether it looks
// format-like. A minority of call sites passing a non-literal where most
// pass a format-like literal is the flagged format-string bug.
type FSB struct{}

func (FSB) Name() string { return "fsb" }

func (FSB) NewContext() Context {
	return &fsbContext{Context: store.NewContext()}
}

func (FSB) ProcessPath(c Context, path []*trace.ExecNode) {
	ctx := c.(*fsbContext)
	for _, node := range path {
		call, ok := node.AsCall()
		if !ok {
			continue
		}
		for i, arg := range call.Callee.Args {
			argKey := encodeKey(call.Callee.Name(), strconv.Itoa(i))
			literal, formatLike := false, false
			if sl, ok := arg.(*symbol.StringLiteral); ok {
				literal = true
				formatLike = isFormatString(sl.Text)
			}
			ctx.Add(argKey, encodeFSBCtx(literal, formatLike), call.Code)
		}
	}
}

func (FSB) Finalize(c Context) Context { return defaultFinalize(c) }

func (FSB) Rank(reports []store.BugReport) []store.BugReport {
	for i := range reports {
		literal, formatLike := decodeFSBCtx(reports[i].Ctx)
		if literal && formatLike {
			reports[i].Score += 0.5
		}
		funcName := decodeKey(reports[i].Key)[0]
		if rank.IsPrint(funcName) {
			reports[i].Score += 0.3
		}
	}
	return rankByScoreDesc(reports)
}

func encodeFSBCtx(literal, formatLike bool) string {
	return strconv.FormatBool(literal) + "/" + strconv.FormatBool(formatLike)
}

func decodeFSBCtx(ctx string) (literal, formatLike bool) {
	parts := strings.SplitN(ctx, "/", 2)
	if len(parts) != 2 {
		return false, false
	}
	literal = parts[0] == "true"
	formatLike = parts[1] == "true"
	return literal, formatLike
}

// fsbContext overrides GetBugs: unlike the default extraction (which
// treats every ctx as an independent candidate), fsb sums evidence across
// EVERY literal-argument context for a key to get a single "correct"
// count, then reports the non-literal context's codes scored against
// that combined count.
type fsbContext struct{ *store.Context }

func (c *fsbContext) Merge(other Context) {
	o := other.(*fsbContext)
	c.Context.Merge(o.Context)
}

func (c *fsbContext) GetBugs(threshold float64) []store.BugReport {
	var bugs []store.BugReport
	for _, key := range c.CtxUses.Keys() {
		total := c.TotalUses.Get(key)
		totalSize := total.Size()
		if totalSize == 0 {
			continue
		}
		inner := c.CtxUses.Get(key)

		correct := 0
		for _, ctxKey := range inner.Keys() {
			literal, _ := decodeFSBCtx(ctxKey)
			if literal {
				correct += inner.Get(ctxKey).Size()
			}
		}
		score := float64(correct) / float64(totalSize)
		if score < threshold || score >= 1 {
			continue
		}

		for _, ctxKey := range inner.Keys() {
			literal, _ := decodeFSBCtx(ctxKey)
			if literal {
				continue
			}
			for _, v := range inner.Get(ctxKey).Values() {
				bugs = append(bugs, store.BugReport{Score: score, Code: v.(string), Key: key, Ctx: ctxKey})
			}
		}
	}
	return bugs
}
