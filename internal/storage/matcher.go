package storage

import (
	"fmt"

	"github.com/gobwas/glob"
)

// DefaultInclude is the include pattern used when none is configured.
const DefaultInclude = "*.md"

// Matcher filters source file names by include and exclude glob patterns.
// A name matches when it matches any include pattern and no exclude pattern.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles the given patterns. An empty include list means
// DefaultInclude.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	m := &Matcher{}
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("storage: include pattern %q: %w", p, err)
		}
		m.include = append(m.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("storage: exclude pattern %q: %w", p, err)
		}
		m.exclude = append(m.exclude, g)
	}
	return m, nil
}

// Match reports whether name passes the filters.
func (m *Matcher) Match(name string) bool {
	for _, g := range m.exclude {
		if g.Match(name) {
			return false
		}
	}
	for _, g := range m.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}
