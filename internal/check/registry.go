package check

import "sort"

// Registry maps a checker's command-line name to its strategy, mirroring
// apisan/check/__init__.py's CHECKERS dict. echo is not part of the
// original's documented registry (it's this port's supplemental
// diagnostic strategy) but is registered the same way so --checker=echo
// works like any other.
var Registry = map[string]Checker{
	"rvchk":   RetVal{},
	"cpair":   Causality{},
	"cond":    Condition{},
	"fsb":     FSB{},
	"args":    Arg{},
	"intovfl": IntOvfl{},
	"echo":    Echo{},
}

// Lookup returns the named checker and whether it was found.
func Lookup(name string) (Checker, bool) {
	c, ok := Registry[name]
	return c, ok
}

// Names returns every registered checker name, sorted, for --help text
// and config validation.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
