// Package store implements the two-level frequency multiset the checker
// framework is built on (spec.md §4.6): a default-dict-like mapping from a
// key to a set of evidence codes, or from an outer key to an inner key to a
// set, with union-merge defined at the leaf set.
//
// Keys are plain strings: every checker's key shape (a callee name, a
// (callee,index) pair, a (callee,constraint) pair, ...) is encoded by the
// checker into one string before it ever reaches the store, the same way
// the original keys a Python dict by a hashable tuple. This keeps Store
// itself generic over nothing, matching spec.md §9's "do not generalise
// the two levels" guidance.
package store

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
)

// Level1 is key -> set of evidence codes.
type Level1 struct {
	m map[string]*treeset.Set
}

// NewLevel1 returns an empty level-1 store.
func NewLevel1() *Level1 {
	return &Level1{m: make(map[string]*treeset.Set)}
}

// Get returns the set for key, auto-creating an empty one on first access
// (default-dict semantics).
func (s *Level1) Get(key string) *treeset.Set {
	set, ok := s.m[key]
	if !ok {
		set = treeset.NewWithStringComparator()
		s.m[key] = set
	}
	return set
}

// Add inserts code into key's set.
func (s *Level1) Add(key, code string) {
	s.Get(key).Add(code)
}

// Keys returns every key currently present (no auto-create), sorted.
func (s *Level1) Keys() []string {
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge unions other into s, leaf-set by leaf-set. Commutative and
// associative since set union is.
func (s *Level1) Merge(other *Level1) {
	if other == nil {
		return
	}
	for key, set := range other.m {
		dst := s.Get(key)
		for _, value := range set.Values() {
			dst.Add(value)
		}
	}
}

// Level2 is outer-key -> inner-key -> set of evidence codes.
type Level2 struct {
	m map[string]*Level1
}

// NewLevel2 returns an empty level-2 store.
func NewLevel2() *Level2 {
	return &Level2{m: make(map[string]*Level1)}
}

// Get returns the inner Level1 store for outerKey, auto-creating it.
func (s *Level2) Get(outerKey string) *Level1 {
	inner, ok := s.m[outerKey]
	if !ok {
		inner = NewLevel1()
		s.m[outerKey] = inner
	}
	return inner
}

// Add inserts code into outerKey/innerKey's set.
func (s *Level2) Add(outerKey, innerKey, code string) {
	s.Get(outerKey).Add(innerKey, code)
}

// Keys returns every outer key currently present, sorted.
func (s *Level2) Keys() []string {
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge unions other into s, recursing one level then delegating to
// Level1.Merge at the leaves.
func (s *Level2) Merge(other *Level2) {
	if other == nil {
		return
	}
	for outerKey, inner := range other.m {
		s.Get(outerKey).Merge(inner)
	}
}
