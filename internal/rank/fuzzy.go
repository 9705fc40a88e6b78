package rank

import (
	edlib "github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// FuzzyMatcher is an additive, opt-in second pass over the plain substring
// keyword matcher: it stems both the callee name and each keyword with
// Porter2 before comparing, then falls back to a Jaro-Winkler similarity
// threshold so "releasing" still matches "release" even though neither
// contains the other verbatim. Installed module-wide via Configure, gated
// by Config.Analysis.FuzzyKeywords; every checker benefits from it
// automatically through IsAlloc/IsDealloc/IsLock/IsUnlock/IsPrint once
// installed, without importing FuzzyMatcher directly.
type FuzzyMatcher struct {
	Threshold float64 // similarity in [0,1]; 0 disables the fuzzy fallback
}

// NewFuzzyMatcher returns a matcher with the given similarity threshold.
// A threshold of 0 makes Match behave exactly like the plain hasKeyword
// substring search.
func NewFuzzyMatcher(threshold float64) *FuzzyMatcher {
	return &FuzzyMatcher{Threshold: threshold}
}

// Match reports whether name matches any of keywords, either by substring
// (the original behavior) or, when enabled, by stemmed Jaro-Winkler
// similarity above Threshold.
func (m *FuzzyMatcher) Match(name string, keywords []string) bool {
	if hasKeyword(name, keywords) {
		return true
	}
	if m.Threshold <= 0 {
		return false
	}
	stemmedName := porter2.Stem(name)
	for _, kw := range keywords {
		stemmedKw := porter2.Stem(kw)
		if contains(stemmedName, stemmedKw) {
			return true
		}
		score, err := edlib.StringsSimilarity(stemmedName, stemmedKw, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) >= m.Threshold {
			return true
		}
	}
	return false
}
