// Package symbol models the typed expression trees produced by parsing a
// call-site or condition text blob (see internal/expr). A Symbol is a
// closed, value-equal variant: two Call symbols with the same canonical
// printed form are the same symbol even if they came from different call
// sites, which is exactly what lets the checkers in internal/check key
// frequency stores on them.
package symbol

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Kind tags the closed set of Symbol variants.
type Kind int

const (
	KindConcreteInt Kind = iota
	KindStringLiteral
	KindID
	KindField
	KindArray
	KindBinaryOp
	KindCall
	KindConstraint
	KindUnknown
)

// Range is an inclusive integer range bound to a symbol by an Assume event.
type Range struct {
	Lo, Hi int64
}

// Symbol is the common interface implemented by every variant. Equality and
// hashing are both derived from the canonical printed form (String), never
// from identity or field-by-field comparison: this is what makes two
// syntactically identical call sites compare equal while two Events built
// from the same text stay distinct (see internal/event).
type Symbol interface {
	fmt.Stringer
	Kind() Kind
	// Children returns the symbol's descendant operands used by the
	// argument-aliasing analysis. Call's children are its arguments
	// (excluding the callee); Field/Array expose only the base.
	Children() []Symbol
	// Hash returns a cached xxhash of the canonical printed form.
	Hash() uint64
}

// Equal reports whether two symbols have the same canonical printed form.
func Equal(a, b Symbol) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

// base caches the canonical-form hash lazily; every concrete variant embeds
// it so Hash() never needs to be implemented twice.
type base struct {
	once sync.Once
	hash uint64
}

func (b *base) hashOf(s Symbol) uint64 {
	b.once.Do(func() {
		b.hash = xxhash.Sum64String(s.String())
	})
	return b.hash
}

// ConcreteInt is an integer literal.
type ConcreteInt struct {
	base
	Value int64
}

func NewConcreteInt(v int64) *ConcreteInt {
	c := &ConcreteInt{Value: v}
	return c
}

func (c *ConcreteInt) Kind() Kind        { return KindConcreteInt }
func (c *ConcreteInt) Children() []Symbol { return nil }
func (c *ConcreteInt) String() string    { return strconv.FormatInt(c.Value, 10) }
func (c *ConcreteInt) Hash() uint64      { return c.hashOf(c) }

// StringLiteral is a double-quoted string literal. String() preserves the
// surrounding quotes per the canonicalization invariant.
type StringLiteral struct {
	base
	Text string // raw text, without the surrounding quotes
}

func NewStringLiteral(text string) *StringLiteral {
	return &StringLiteral{Text: text}
}

func (s *StringLiteral) Kind() Kind        { return KindStringLiteral }
func (s *StringLiteral) Children() []Symbol { return nil }
func (s *StringLiteral) String() string    { return "\"" + s.Text + "\"" }
func (s *StringLiteral) Hash() uint64      { return s.hashOf(s) }

// ID is a bare identifier.
type ID struct {
	base
	Name string
}

func NewID(name string) *ID {
	return &ID{Name: name}
}

func (i *ID) Kind() Kind        { return KindID }
func (i *ID) Children() []Symbol { return nil }
func (i *ID) String() string    { return i.Name }
func (i *ID) Hash() uint64      { return i.hashOf(i) }

// Field is `base->member`.
type Field struct {
	base
	Base   Symbol
	Member string
}

func NewField(b Symbol, member string) *Field {
	return &Field{Base: b, Member: member}
}

func (f *Field) Kind() Kind        { return KindField }
func (f *Field) Children() []Symbol { return []Symbol{f.Base} }
func (f *Field) String() string    { return f.Base.String() + "->" + f.Member }
func (f *Field) Hash() uint64      { return f.hashOf(f) }

// Array is `base[index]`.
type Array struct {
	base
	Base  Symbol
	Index Symbol
}

func NewArray(b, index Symbol) *Array {
	return &Array{Base: b, Index: index}
}

func (a *Array) Kind() Kind        { return KindArray }
func (a *Array) Children() []Symbol { return []Symbol{a.Base} }
func (a *Array) String() string    { return a.Base.String() + "[" + a.Index.String() + "]" }
func (a *Array) Hash() uint64      { return a.hashOf(a) }

// BinaryOp is `lhs op rhs`.
type BinaryOp struct {
	base
	Lhs, Rhs Symbol
	Op       string
}

func NewBinaryOp(lhs Symbol, op string, rhs Symbol) *BinaryOp {
	return &BinaryOp{Lhs: lhs, Op: op, Rhs: rhs}
}

func (b *BinaryOp) Kind() Kind        { return KindBinaryOp }
func (b *BinaryOp) Children() []Symbol { return []Symbol{b.Lhs, b.Rhs} }
func (b *BinaryOp) String() string {
	if b.Lhs == nil || b.Rhs == nil {
		// mirrors the original's defensive fallback when an operand is
		// missing after a partial parse.
		return "0 == 0"
	}
	return b.Lhs.String() + " " + b.Op + " " + b.Rhs.String()
}
func (b *BinaryOp) Hash() uint64 { return b.hashOf(b) }

// Call is `callee(args...)`. Children deliberately excludes the callee.
type Call struct {
	base
	Callee Symbol
	Args   []Symbol
}

func NewCall(callee Symbol, args []Symbol) *Call {
	return &Call{Callee: callee, Args: args}
}

func (c *Call) Kind() Kind        { return KindCall }
func (c *Call) Children() []Symbol { return c.Args }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (c *Call) Hash() uint64 { return c.hashOf(c) }

// Name returns the callee's printed form, used as a checker key.
func (c *Call) Name() string {
	if c.Callee == nil {
		return ""
	}
	return c.Callee.String()
}

// Constraint is `target @= { ranges... }`.
type Constraint struct {
	base
	Target Symbol
	Ranges []Range
}

func NewConstraint(target Symbol, ranges []Range) *Constraint {
	return &Constraint{Target: target, Ranges: ranges}
}

func (c *Constraint) Kind() Kind        { return KindConstraint }
func (c *Constraint) Children() []Symbol { return []Symbol{c.Target} }
func (c *Constraint) String() string {
	parts := make([]string, len(c.Ranges))
	for i, r := range c.Ranges {
		parts[i] = fmt.Sprintf("[%d, %d]", r.Lo, r.Hi)
	}
	return fmt.Sprintf("Const(%s, [%s])", c.Target.String(), strings.Join(parts, ", "))
}
func (c *Constraint) Hash() uint64 { return c.hashOf(c) }

// Unknown marks a failed parse. Callers must tolerate it rather than treat
// it as an error (spec: parse errors never propagate).
type Unknown struct {
	base
}

func NewUnknown() *Unknown { return &Unknown{} }

func (u *Unknown) Kind() Kind        { return KindUnknown }
func (u *Unknown) Children() []Symbol { return nil }
func (u *Unknown) String() string    { return "<unknown>" }
func (u *Unknown) Hash() uint64      { return u.hashOf(u) }

// IDNodes returns the set of distinct ID descendants reachable from sym's
// Children() closure, used by the argument-aliasing checker's relatedness
// test. The walk is iterative: symbol trees are shallow in practice but
// nothing guarantees it for adversarial input.
func IDNodes(sym Symbol) map[string]*ID {
	out := make(map[string]*ID)
	stack := []Symbol{sym}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if cur == nil {
			continue
		}
		for _, child := range cur.Children() {
			stack = append(stack, child)
		}
		if id, ok := cur.(*ID); ok {
			out[id.Name] = id
		}
	}
	return out
}
