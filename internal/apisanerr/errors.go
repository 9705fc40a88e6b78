// Package apisanerr defines the error types surfaced across the explorer,
// decoder, parser, and checkers, each carrying enough context (file, tree
// index, checker name) to log and recover from without aborting a whole
// run (spec.md §7).
package apisanerr

import (
	"fmt"
	"time"
)

// Kind classifies which stage of the pipeline produced the error.
type Kind string

const (
	KindIO       Kind = "io"
	KindFraming  Kind = "framing"
	KindDocument Kind = "document"
	KindEvent    Kind = "event"
	KindExpr     Kind = "expr"
	KindChecker  Kind = "checker"
	KindConfig   Kind = "config"
)

// TraceError is the one error type used throughout the pipeline. Which
// fields are populated depends on Kind: a KindIO error has Path set, a
// KindChecker error has Checker set, and so on.
type TraceError struct {
	Kind       Kind
	Path       string
	TreeIndex  int
	Checker    string
	Underlying error
	Timestamp  time.Time
}

// New creates a TraceError of the given kind wrapping err.
func New(kind Kind, err error) *TraceError {
	return &TraceError{Kind: kind, Underlying: err, Timestamp: time.Now()}
}

// WithPath attaches the file or URL the error occurred on.
func (e *TraceError) WithPath(path string) *TraceError {
	e.Path = path
	return e
}

// WithTreeIndex attaches the forest position of the tree that failed.
func (e *TraceError) WithTreeIndex(idx int) *TraceError {
	e.TreeIndex = idx
	return e
}

// WithChecker attaches the name of the checker that produced the error.
func (e *TraceError) WithChecker(name string) *TraceError {
	e.Checker = name
	return e
}

// Error implements the error interface.
func (e *TraceError) Error() string {
	switch {
	case e.Checker != "":
		return fmt.Sprintf("%s: checker %q: %v", e.Kind, e.Checker, e.Underlying)
	case e.Path != "" && e.TreeIndex > 0:
		return fmt.Sprintf("%s: %s (tree %d): %v", e.Kind, e.Path, e.TreeIndex, e.Underlying)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Underlying)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Underlying)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *TraceError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates the errors collected while walking a corpus: one
// bad file must never stop the rest of the explore run (spec.md §7).
type MultiError struct {
	Errors []error
}

// NewMultiError filters out nils and wraps the rest.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface.
func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors during explore, first: %v", len(e.Errors), e.Errors[0])
}

// Unwrap returns all aggregated errors.
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
