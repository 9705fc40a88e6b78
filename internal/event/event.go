// Package event models the four trace event variants that label an
// ExecNode (see internal/trace): Call, Location, EndOfPath, and Assume.
// Events are identified by a process-unique monotonically increasing id,
// never by content — two `malloc(256)` calls at different sites are
// distinct events even though their Call symbols compare equal (spec.md
// §9). This split is what lets Contexts key on Symbols while still
// producing distinct evidence codes per call site.
package event

import (
	"sync/atomic"

	"github.com/standardbeagle/apisan/internal/symbol"
)

var nextID uint64

// nextEventID is the one piece of shared mutable state in the whole
// pipeline (spec.md §5): an atomic counter so ids stay unique across the
// parallel explorer's worker goroutines without any other synchronization.
func nextEventID() uint64 {
	return atomic.AddUint64(&nextID, 1)
}

// Kind enumerates the four event variants.
type Kind int

const (
	KindCall Kind = iota
	KindLocation
	KindEOP
	KindAssume
)

// Event is implemented by all four variants; ID is the event's identity.
type Event interface {
	ID() uint64
	Kind() Kind
}

type base struct {
	id uint64
}

func newBase() base { return base{id: nextEventID()} }

func (b base) ID() uint64 { return b.id }

// Call is `@LOG_CALL`: a call-site event. Callee is nil when the CALL
// payload failed to parse as a Call symbol (the decoder keeps the event
// rather than treating this as fatal, per spec.md §4.2's payload handling;
// internal/trace filters these out via HasCall).
type Call struct {
	base
	Callee *symbol.Call
	Code   string
}

func NewCall(callee *symbol.Call, code string) *Call {
	return &Call{base: newBase(), Callee: callee, Code: code}
}

func (c *Call) Kind() Kind { return KindCall }

// HasCall reports whether the CALL payload parsed to a usable Call symbol.
func (c *Call) HasCall() bool { return c.Callee != nil }

// Location is `@LOG_LOCATION`.
type Location struct {
	base
	Loc  symbol.Symbol
	Type string
	Code string
}

func NewLocation(loc symbol.Symbol, typ, code string) *Location {
	return &Location{base: newBase(), Loc: loc, Type: typ, Code: code}
}

func (l *Location) Kind() Kind { return KindLocation }

// IsStore reports whether this location event recorded a store.
func (l *Location) IsStore() bool { return l.Type == "STORE" }

// EOP is `@LOG_EOP`, the marker the path walker relies on to know a leaf
// terminates a path.
type EOP struct {
	base
}

func NewEOP() *EOP { return &EOP{base: newBase()} }

func (e *EOP) Kind() Kind { return KindEOP }

// Assume is `@LOG_ASSUME`: introduces a constraint on the tree below it.
type Assume struct {
	base
	Cond symbol.Symbol
}

func NewAssume(cond symbol.Symbol) *Assume {
	return &Assume{base: newBase(), Cond: cond}
}

func (a *Assume) Kind() Kind { return KindAssume }
