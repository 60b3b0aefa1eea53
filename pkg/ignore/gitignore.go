package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// GitIgnoreFileName is the name of the gitignore file read from a root directory.
const GitIgnoreFileName = ".gitignore"

// GitIgnore applies gitignore rules relative to a base directory.
type GitIgnore struct {
	base  string
	rules *gitignore.GitIgnore
	count int
}

// NewGitIgnore compiles gitignore lines anchored at base.
func NewGitIgnore(base string, lines ...string) *GitIgnore {
	count := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			count++
		}
	}
	return &GitIgnore{
		base:  filepath.Clean(base),
		rules: gitignore.CompileIgnoreLines(lines...),
		count: count,
	}
}

// LoadGitIgnore reads <dir>/.gitignore. A directory without one yields a
// matcher that ignores nothing.
func LoadGitIgnore(fsys afero.Fs, dir string, logger *zap.Logger) (*GitIgnore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	filePath := filepath.Join(dir, GitIgnoreFileName)
	content, err := afero.ReadFile(fsys, filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No gitignore file found", zap.String("filePath", filePath))
			return NewGitIgnore(dir), nil
		}
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	gi := NewGitIgnore(dir, strings.Split(string(content), "\n")...)
	logger.Debug("Compiled gitignore rules", zap.String("filePath", filePath), zap.Int("ruleCount", gi.count))
	return gi, nil
}

// MatchesPath checks if the path is excluded by the gitignore rules.
func (gi *GitIgnore) MatchesPath(path string, isDir bool) bool {
	matched, _ := gi.MatchesPathWithPattern(path, isDir)
	return matched
}

// MatchesPathWithPattern checks the path and returns the rule line that excluded it.
// Paths outside the base directory never match.
func (gi *GitIgnore) MatchesPathWithPattern(path string, isDir bool) (bool, string) {
	if gi == nil || gi.rules == nil {
		return false, ""
	}
	relPath, err := filepath.Rel(gi.base, path)
	if err != nil || relPath == "." || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return false, ""
	}
	relPath = normalizePath(relPath)
	if isDir {
		relPath += "/"
	}
	matched, how := gi.rules.MatchesPathHow(relPath)
	if !matched || how == nil {
		return matched, ""
	}
	return true, how.Line
}
