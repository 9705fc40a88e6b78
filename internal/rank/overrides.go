package rank

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Overrides is the shape of an optional .apisan-keywords.toml file letting a
// project extend (never replace) the built-in keyword lists -- useful for
// codebases with their own allocator wrappers (xmalloc, kmem_alloc, ...).
type Overrides struct {
	Alloc   []string `toml:"alloc"`
	Dealloc []string `toml:"dealloc"`
	Lock    []string `toml:"lock"`
	Unlock  []string `toml:"unlock"`
	Print   []string `toml:"print"`
}

// LoadOverrides reads projectRoot/.apisan-keywords.toml, if present, and
// applies it by appending to the package-level keyword lists. Returns
// false, nil when no such file exists.
func LoadOverrides(projectRoot string) (bool, error) {
	path := filepath.Join(projectRoot, ".apisan-keywords.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var o Overrides
	if err := toml.Unmarshal(data, &o); err != nil {
		return false, err
	}

	AllocKeyword = append(AllocKeyword, o.Alloc...)
	DeallocKeyword = append(DeallocKeyword, o.Dealloc...)
	LockKeyword = append(LockKeyword, o.Lock...)
	UnlockKeyword = append(UnlockKeyword, o.Unlock...)
	PrintKeyword = append(PrintKeyword, o.Print...)
	return true, nil
}
