// Package ignore decides which paths are pruned from a tree rendering.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/danwakefield/fnmatch"
)

// Matcher defines the interface for matching paths against ignore rules.
// Directory paths are reported with isDir set so that rule sets which treat
// directories specially (gitignore) can do so.
type Matcher interface {
	MatchesPath(path string, isDir bool) bool
	MatchesPathWithPattern(path string, isDir bool) (bool, string)
}

// rule pairs the pattern as written with the form handed to fnmatch.
type rule struct {
	Line     string // Original pattern text.
	compiled string // Pattern rewritten for fnmatch escape rules.
}

// RuleSet is an ordered collection of shell-glob ignore patterns.
// A nil RuleSet matches nothing.
type RuleSet struct {
	rules []rule
}

// NewRuleSet builds a RuleSet from patterns. Blank patterns are dropped;
// everything else is kept, including patterns with broken bracket syntax.
func NewRuleSet(patterns ...string) *RuleSet {
	rs := &RuleSet{}
	rs.Add(patterns...)
	return rs
}

// Add appends patterns to the rule set.
func (rs *RuleSet) Add(patterns ...string) {
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		rs.rules = append(rs.rules, rule{Line: trimmed, compiled: compilePattern(trimmed)})
	}
}

// Patterns returns the patterns in evaluation order.
func (rs *RuleSet) Patterns() []string {
	if rs == nil {
		return nil
	}
	patterns := make([]string, 0, len(rs.rules))
	for _, r := range rs.rules {
		patterns = append(patterns, r.Line)
	}
	return patterns
}

// Len reports the number of patterns.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// MatchesPath checks if the given path matches any of the patterns.
func (rs *RuleSet) MatchesPath(path string, isDir bool) bool {
	matched, _ := rs.MatchesPathWithPattern(path, isDir)
	return matched
}

// MatchesPathWithPattern checks the path against every pattern in order and
// returns the first one that matches. Glob rules do not distinguish
// directories from files, so isDir is unused.
func (rs *RuleSet) MatchesPathWithPattern(path string, _ bool) (bool, string) {
	if rs == nil {
		return false, ""
	}
	normalizedPath := normalizePath(path)
	for _, r := range rs.rules {
		if fnmatch.Match(r.compiled, normalizedPath, 0) {
			return true, r.Line
		}
	}
	return false, ""
}

// IsIgnored reports whether path matches at least one of patterns.
func IsIgnored(path string, patterns []string) bool {
	return NewRuleSet(patterns...).MatchesPath(path, false)
}

// Match reports whether path matches a single shell-glob pattern.
// '*' matches any run of characters including '/', '?' matches exactly one
// character and '[...]' / '[!...]' are character classes. Matching is
// case-sensitive and the backslash has no special meaning.
func Match(pattern, path string) bool {
	return fnmatch.Match(compilePattern(pattern), normalizePath(path), 0)
}

// normalizePath converts OS-specific path separators to forward slashes.
func normalizePath(path string) string {
	return filepath.ToSlash(path)
}

// compilePattern rewrites a glob so that fnmatch (which honours backslash
// escapes and '^' negation) sees it the way a plain shell glob reads:
// backslashes are literal, a '[' without a closing ']' is a literal '[', a
// ']' or '^' opening a class is a class member.
func compilePattern(pattern string) string {
	var b strings.Builder
	n := len(pattern)
	for i := 0; i < n; {
		c := pattern[i]
		i++
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '[':
			j := i
			if j < n && pattern[j] == '!' {
				j++
			}
			if j < n && pattern[j] == ']' {
				j++
			}
			for j < n && pattern[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				continue
			}
			class := pattern[i:j]
			i = j + 1
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('!')
				class = class[1:]
			}
			for k := 0; k < len(class); k++ {
				switch ch := class[k]; {
				case ch == '\\':
					b.WriteString(`\\`)
				case k == 0 && (ch == ']' || ch == '^'):
					b.WriteByte('\\')
					b.WriteByte(ch)
				default:
					b.WriteByte(ch)
				}
			}
			b.WriteByte(']')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
