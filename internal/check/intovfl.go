package check

import (
	"strconv"

	"github.com/standardbeagle/apisan/internal/constraint"
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/symbol"
	"github.com/standardbeagle/apisan/internal/trace"
)

// intOvflVerdict is the small closed enum check_integer_overflow returns:
// whether a binary-operator argument's bound range, once constant
// operands are folded out of [0, 2^32-1], is fully checked (Correct),
// partially/incorrectly checked (Wrong), unchecked (Missing), or not
// reasoned about at all (Undefined, e.g. an operator other than + or *, a
// multiply by zero, or an operand bound to more than one range).
type intOvflVerdict string

const (
	ovflWrong     intOvflVerdict = "wrong"
	ovflMissing   intOvflVerdict = "missing"
	ovflCorrect   intOvflVerdict = "correct"
	ovflUndefined intOvflVerdict = "undefined"
)

const (
	intLimitLo = 0
	intLimitHi = 4294967295 // 2^32 - 1
)

// checkIntegerOverflow walks a binary-operator argument's constant
// operands, narrowing [limitLo, limitHi] for each (x + c / x * c) step,
// until it reaches a non-constant operand it can compare against a bound
// constraint -- or gives up as Undefined/Missing per the same cases the
// original's dirty recursive check distinguishes.
func checkIntegerOverflow(arg symbol.Symbol, cmgr *constraint.Mgr, limitLo, limitHi float64) intOvflVerdict {
	if bo, ok := arg.(*symbol.BinaryOp); ok {
		lhs, rhs, op := bo.Lhs, bo.Rhs, bo.Op
		if _, ok := rhs.(*symbol.ConcreteInt); ok {
			lhs, rhs = rhs, lhs
		}
		if lhsC, ok := lhs.(*symbol.ConcreteInt); ok {
			switch {
			case op == "+":
				limitLo -= float64(lhsC.Value)
				limitHi -= float64(lhsC.Value)
			case op == "*" && lhsC.Value != 0:
				limitLo /= float64(lhsC.Value)
				limitHi /= float64(lhsC.Value)
			default:
				return ovflUndefined
			}
			return checkIntegerOverflow(rhs, cmgr, limitLo, limitHi)
		}
		// two non-constant operands: there is no constant to fold, so the
		// argument is recorded as Missing.
		return ovflMissing
	}

	if ranges, ok := cmgr.Get(arg); ok && len(ranges) > 0 {
		if len(ranges) >= 2 {
			return ovflUndefined
		}
		for _, r := range ranges {
			if !(float64(r.Lo) >= limitLo && float64(r.Hi) <= limitHi) {
				return ovflWrong
			}
		}
		return ovflCorrect
	}

	if limitLo == intLimitLo && limitHi == intLimitHi {
		return ovflUndefined
	}
	return ovflMissing
}

// IntOvfl is intovfl: for each (callee, argument position) whose argument
// is a binary operator, the context is the verdict above. A key with at
// least one Correct verdict recorded reports every non-Correct evidence
// code at that key, scored by the fraction of Correct uses -- no minority
// threshold gate, unlike every other checker here.
type IntOvfl struct{}

func (IntOvfl) Name() string { return "intovfl" }

func (IntOvfl) NewContext() Context {
	return &intOvflContext{Context: store.NewContext()}
}

func (IntOvfl) ProcessPath(c Context, path []*trace.ExecNode) {
	ctx := c.(*intOvflContext)
	cmgr := path[len(path)-1].Cmgr

	for _, node := range path {
		call, ok := node.AsCall()
		if !ok {
			continue
		}
		for j, arg := range call.Callee.Args {
			if _, ok := arg.(*symbol.BinaryOp); !ok {
				continue
			}
			verdict := checkIntegerOverflow(arg, cmgr, intLimitLo, intLimitHi)
			if verdict == ovflUndefined {
				continue
			}
			key := encodeKey(call.Callee.Name(), strconv.Itoa(j))
			ctx.Add(key, string(verdict), call.Code)
		}
	}
}

func (IntOvfl) Finalize(c Context) Context { return defaultFinalize(c) }

func (IntOvfl) Rank(reports []store.BugReport) []store.BugReport {
	for i := range reports {
		if reports[i].Ctx == string(ovflWrong) {
			reports[i].Score += 0.3
		}
	}
	return rankByScoreDesc(reports)
}

// intOvflContext overrides GetBugs: it reports every non-Correct
// evidence code for a key as long as at least one Correct verdict was
// ever recorded for it, independent of the threshold -- the original
// never checks config.THRESHOLD here.
type intOvflContext struct{ *store.Context }

func (c *intOvflContext) Merge(other Context) {
	o := other.(*intOvflContext)
	c.Context.Merge(o.Context)
}

func (c *intOvflContext) GetBugs(threshold float64) []store.BugReport {
	var bugs []store.BugReport
	for _, key := range c.CtxUses.Keys() {
		total := c.TotalUses.Get(key)
		totalSize := total.Size()
		if totalSize == 0 {
			continue
		}
		inner := c.CtxUses.Get(key)
		correct := inner.Get(string(ovflCorrect)).Size()
		if correct == 0 {
			continue
		}
		score := float64(correct) / float64(totalSize)
		for _, ctxKey := range inner.Keys() {
			if ctxKey == string(ovflCorrect) {
				continue
			}
			for _, v := range inner.Get(ctxKey).Values() {
				bugs = append(bugs, store.BugReport{Score: score, Code: v.(string), Key: key, Ctx: ctxKey})
			}
		}
	}
	return bugs
}
