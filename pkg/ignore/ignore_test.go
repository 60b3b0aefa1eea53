package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "suffix", pattern: "*.tmp", path: "/r/drop.tmp", want: true},
		{name: "suffix_miss", pattern: "*.tmp", path: "/r/keep.txt", want: false},
		{name: "star_crosses_separator", pattern: "*/node_modules", path: "a/b/node_modules", want: true},
		{name: "star_matches_empty", pattern: "*", path: "", want: true},
		{name: "question_one_char", pattern: "?.txt", path: "a.txt", want: true},
		{name: "question_two_chars", pattern: "?.txt", path: "ab.txt", want: false},
		{name: "class", pattern: "[ab].txt", path: "a.txt", want: true},
		{name: "class_miss", pattern: "[ab].txt", path: "c.txt", want: false},
		{name: "negated_class", pattern: "[!ab].txt", path: "c.txt", want: true},
		{name: "negated_class_miss", pattern: "[!ab].txt", path: "a.txt", want: false},
		{name: "leading_bracket_member", pattern: "[]]x", path: "]x", want: true},
		{name: "caret_is_literal", pattern: "[^a]", path: "^", want: true},
		{name: "caret_does_not_negate", pattern: "[^a]", path: "b", want: false},
		{name: "case_sensitive", pattern: "*.TXT", path: "a.txt", want: false},
		{name: "full_path_not_base_name", pattern: "sub", path: "/r/sub", want: false},
		{name: "unterminated_class_literal", pattern: "file[", path: "file[", want: true},
		{name: "unterminated_class_no_wildcard", pattern: "file[", path: "file", want: false},
		{name: "unterminated_class_keeps_star", pattern: "*[x", path: "/r/a[x", want: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, Match(testCase.pattern, testCase.path))
		})
	}
}

func TestIsIgnoredWithoutPatterns(t *testing.T) {
	assert.False(t, IsIgnored("/r/anything", nil))
	assert.False(t, IsIgnored("", []string{}))
}

func TestIsIgnoredAnyPattern(t *testing.T) {
	patterns := []string{"*.log", "*/vendor"}
	assert.True(t, IsIgnored("repo/vendor", patterns))
	assert.True(t, IsIgnored("repo/debug.log", patterns))
	assert.False(t, IsIgnored("repo/main.go", patterns))
}

func TestRuleSetReportsFirstMatchingPattern(t *testing.T) {
	rs := NewRuleSet("*.go", "*main*", "  ", "")
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, []string{"*.go", "*main*"}, rs.Patterns())

	matched, pattern := rs.MatchesPathWithPattern("cmd/main.go", false)
	assert.True(t, matched)
	assert.Equal(t, "*.go", pattern)

	matched, pattern = rs.MatchesPathWithPattern("cmd/main.txt", true)
	assert.True(t, matched)
	assert.Equal(t, "*main*", pattern)

	matched, pattern = rs.MatchesPathWithPattern("README.md", false)
	assert.False(t, matched)
	assert.Empty(t, pattern)
}

func TestNilRuleSetMatchesNothing(t *testing.T) {
	var rs *RuleSet
	assert.False(t, rs.MatchesPath("a", false))
	assert.Zero(t, rs.Len())
	assert.Nil(t, rs.Patterns())
}

func TestChain(t *testing.T) {
	chain := Chain{
		NewRuleSet("*.tmp"),
		nil,
		NewGitIgnore("/r", "build/"),
	}

	matched, pattern := chain.MatchesPathWithPattern("/r/x.tmp", false)
	assert.True(t, matched)
	assert.Equal(t, "*.tmp", pattern)

	matched, pattern = chain.MatchesPathWithPattern("/r/build", true)
	assert.True(t, matched)
	assert.Equal(t, "build/", pattern)

	assert.False(t, chain.MatchesPath("/r/src", true))
	assert.False(t, Chain(nil).MatchesPath("/r/x.tmp", false))
}
