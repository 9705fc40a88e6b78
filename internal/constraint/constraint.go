// Package constraint implements the per-path constraint manager and its
// propagation rule (spec.md §4.4): as the decoder walks a freshly built
// tree, every Assume node binds its constrained symbol into the manager
// visible to its subtree, by functional update, never by mutation.
package constraint

import "github.com/standardbeagle/apisan/internal/symbol"

// Mgr is an immutable mapping from a constrained Symbol to its range list.
// Derived managers are produced by Bind, which copies the parent's entries
// into a new map and adds the newly bound symbol there; the parent is never
// modified.
type Mgr struct {
	// bindings maps a symbol's canonical form to its constrained ranges
	// plus the symbol itself (needed because map keys here are strings,
	// not symbol.Symbol, to keep lookups cheap and hashable).
	bindings map[string]binding
}

type binding struct {
	sym    symbol.Symbol
	ranges []symbol.Range
}

// New returns an empty manager, the one every tree root starts with.
func New() *Mgr {
	return &Mgr{}
}

// Has reports whether sym is already bound in this manager. Used to
// implement the "first-binding-wins" rule: a second Assume on the same
// symbol further down the tree must never rebind it.
func (m *Mgr) Has(sym symbol.Symbol) bool {
	if m == nil || sym == nil {
		return false
	}
	_, ok := m.bindings[sym.String()]
	return ok
}

// Bind returns a new manager with sym bound to ranges, sharing every other
// binding with m. Callers must only call Bind when !m.Has(sym); Bind does
// not itself enforce first-binding-wins so that propagation (which already
// checks Has) stays the single place that decides.
func (m *Mgr) Bind(sym symbol.Symbol, ranges []symbol.Range) *Mgr {
	out := &Mgr{bindings: make(map[string]binding, len(m.bindings)+1)}
	for k, v := range m.bindings {
		out.bindings[k] = v
	}
	out.bindings[sym.String()] = binding{sym: sym, ranges: ranges}
	return out
}

// Get returns the range list bound to sym, or nil, false if unbound.
func (m *Mgr) Get(sym symbol.Symbol) ([]symbol.Range, bool) {
	if m == nil || sym == nil {
		return nil, false
	}
	b, ok := m.bindings[sym.String()]
	if !ok {
		return nil, false
	}
	return b.ranges, true
}

// Key is an immutable, hashable/comparable representation of a range list,
// suitable for use as a map key in frequency-store contexts (spec.md
// §4.4's "immutable" lookup mode).
type Key string

// GetKey returns the range list bound to sym as a comparable Key, and
// whether sym was bound at all. The zero Key ("") is used by callers as
// the bottom element (⊥) when sym is unbound.
func (m *Mgr) GetKey(sym symbol.Symbol) (Key, bool) {
	ranges, ok := m.Get(sym)
	if !ok {
		return "", false
	}
	return rangesKey(ranges), true
}

func rangesKey(ranges []symbol.Range) Key {
	var b []byte
	for _, r := range ranges {
		b = append(b, []byte(itoa(r.Lo))...)
		b = append(b, ':')
		b = append(b, []byte(itoa(r.Hi))...)
		b = append(b, ';')
	}
	return Key(b)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
