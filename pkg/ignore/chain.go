package ignore

// Chain combines matchers; a path is ignored when any member matches.
// Nil members are skipped.
type Chain []Matcher

// MatchesPath checks the path against every matcher in the chain.
func (c Chain) MatchesPath(path string, isDir bool) bool {
	matched, _ := c.MatchesPathWithPattern(path, isDir)
	return matched
}

// MatchesPathWithPattern returns the first matcher's verdict that ignores the path.
func (c Chain) MatchesPathWithPattern(path string, isDir bool) (bool, string) {
	for _, m := range c {
		if m == nil {
			continue
		}
		if matched, pattern := m.MatchesPathWithPattern(path, isDir); matched {
			return true, pattern
		}
	}
	return false, ""
}
