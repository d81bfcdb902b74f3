package httpx

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// PathMatcher matches request paths against a fixed set of Ant-style
// patterns: "*" stays inside one segment, "**" spans segments. A trailing
// "/**" also matches the bare prefix ("/email/**" matches "/email") and an
// inner "/**/" may match zero segments ("/**/callback" matches "/callback").
//
// Patterns are compiled once; Match is safe for concurrent use.
type PathMatcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewPathMatcher compiles patterns. Empty entries are ignored.
func NewPathMatcher(patterns ...string) (*PathMatcher, error) {
	m := &PathMatcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("httpx: path pattern %q must start with /", p)
		}

		for _, variant := range expandPattern(p) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("httpx: compile path pattern %q: %w", p, err)
			}
			m.globs = append(m.globs, g)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// MustPathMatcher is NewPathMatcher for hard-coded patterns.
func MustPathMatcher(patterns ...string) *PathMatcher {
	m, err := NewPathMatcher(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

func expandPattern(p string) []string {
	variants := []string{p}
	if strings.Contains(p, "/**/") {
		variants = append(variants, strings.ReplaceAll(p, "/**/", "/"))
	}
	if base, ok := strings.CutSuffix(p, "/**"); ok {
		if base == "" {
			base = "/"
		}
		variants = append(variants, base)
	}
	return variants
}

// Match reports whether p matches any pattern. p is cleaned first so that
// "/email/../api/x" is not mistaken for a bypassed path. A nil matcher
// matches nothing.
func (m *PathMatcher) Match(p string) bool {
	if m == nil || p == "" {
		return false
	}
	clean := path.Clean(p)
	for _, g := range m.globs {
		if g.Match(clean) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns in configuration order.
func (m *PathMatcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}
