package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// PatternFileName is the conventional name of a pattern file in the working directory.
const PatternFileName = ".treeignore"

// ErrPatternFileNotFound is returned when a pattern file was requested but does not exist.
var ErrPatternFileNotFound = errors.New("unable to find ignore pattern file")

// ParsePatterns reads one pattern per line. Lines are trimmed; blank lines
// and lines starting with '#' are skipped.
func ParsePatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// LoadPatternFile reads the patterns stored in filePath. A missing file is an
// error because callers only load pattern files that were asked for.
func LoadPatternFile(fsys afero.Fs, filePath string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Loading ignore pattern file", zap.String("filePath", filePath))

	info, err := fsys.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPatternFileNotFound, filePath)
		}
		return nil, fmt.Errorf("stat ignore file %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrPatternFileNotFound, filePath)
	}

	file, err := fsys.Open(filePath)
	if err != nil {
		logger.Error("Failed to open ignore file", zap.String("filePath", filePath), zap.Error(err))
		return nil, fmt.Errorf("open ignore file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("Failed to close ignore file", zap.String("filePath", filePath), zap.Error(closeErr))
		}
	}()

	patterns, err := ParsePatterns(file)
	if err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", filePath, err)
	}
	logger.Debug("Loaded ignore patterns", zap.String("filePath", filePath), zap.Int("patternCount", len(patterns)))
	return patterns, nil
}
