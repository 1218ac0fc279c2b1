package pipeline

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreRules decides which walked paths are left out.
//
// Patterns use doublestar syntax ("**", "{a,b}", "[...]"). A pattern with a
// slash is matched against the whole path relative to the walk root; one
// without is matched against the base name, at any depth. A trailing slash
// is dropped, so "build/" and "build" both prune a build directory.
type IgnoreRules struct {
	patterns []string
}

// CompileIgnore validates patterns and returns the rule set. A nil or empty
// list ignores nothing.
func CompileIgnore(patterns []string) (*IgnoreRules, error) {
	r := &IgnoreRules{}
	for _, p := range patterns {
		p = strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(p)), "/")
		p = strings.TrimPrefix(p, "./")
		if p == "" || !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
		r.patterns = append(r.patterns, p)
	}
	return r, nil
}

// Match reports whether rel, a slash-separated path relative to the walk
// root, is ignored.
func (r *IgnoreRules) Match(rel string) bool {
	if r == nil {
		return false
	}
	base := path.Base(rel)
	for _, p := range r.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (r *IgnoreRules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.patterns)
}
