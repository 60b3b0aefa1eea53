// File: pkg/treegen/execute.go
package treegen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/drengskapur/treegen/pkg/ignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Run renders every root in args and returns the combined text. The text is
// written to args.Output when set; otherwise, unless lines were already
// echoed, it is written to stdout.
func Run(ctx context.Context, fsys afero.Fs, args Arguments, stdout io.Writer, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if len(args.Paths) == 0 {
		args.Paths = []string{"."}
	}
	startTime := time.Now()
	logger.Debug("Starting tree generation", zap.Strings("paths", args.Paths))

	rules, err := LoadIgnore(fsys, args, logger)
	if err != nil {
		logger.Error("Failed to load ignore patterns", zap.Error(err))
		return "", err
	}

	renderings, err := renderRoots(ctx, fsys, args, rules, stdout, logger)
	if err != nil {
		logger.Error("Failed to generate tree structure", zap.Error(err))
		return "", err
	}
	treeContent := joinRenderings(renderings)

	if args.Output != "" {
		if err := ensureDirectory(fsys, filepath.Dir(args.Output), logger); err != nil {
			return "", fmt.Errorf("failed to create tree output directory: %w", err)
		}
		if err := writeToFile(fsys, args.Output, []byte(treeContent), 0o644, logger); err != nil {
			return "", fmt.Errorf("failed to write tree structure: %w", err)
		}
	} else if !args.Print {
		if _, err := io.WriteString(stdout, treeContent); err != nil {
			return "", fmt.Errorf("failed to write tree structure: %w", err)
		}
	}

	lineCount := 0
	for _, rendering := range renderings {
		lineCount += rendering.Len()
	}
	logger.Info("Tree generation completed",
		zap.Int("roots", len(renderings)),
		zap.Int("lines", lineCount),
		zap.Duration("elapsed", time.Since(startTime)))
	return treeContent, nil
}

// LoadIgnore builds the glob rule set from inline patterns and the requested
// pattern files. A requested file that is missing is a configuration error.
func LoadIgnore(fsys afero.Fs, args Arguments, logger *zap.Logger) (*ignore.RuleSet, error) {
	rules := ignore.NewRuleSet(args.IgnorePatterns...)

	var patternFiles []string
	if args.UseTreeignore {
		workingDir := args.WorkingDir
		if workingDir == "" {
			currentDir, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			workingDir = currentDir
		}
		patternFiles = append(patternFiles, filepath.Join(workingDir, ignore.PatternFileName))
	}
	if args.IgnoreFile != "" {
		patternFiles = append(patternFiles, args.IgnoreFile)
	}

	for _, patternFile := range patternFiles {
		patterns, err := ignore.LoadPatternFile(fsys, patternFile, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		rules.Add(patterns...)
	}

	logger.Debug("Loaded ignore patterns", zap.Int("totalPatterns", rules.Len()))
	return rules, nil
}

// joinRenderings concatenates renderings. With more than one root every
// block is headed by its root path and blocks are separated by a blank line.
func joinRenderings(renderings []Rendering) string {
	if len(renderings) == 1 {
		return renderings[0].String()
	}
	blocks := make([]string, 0, len(renderings))
	for _, rendering := range renderings {
		blocks = append(blocks, rootHeader(rendering.Root)+"\n"+rendering.String())
	}
	return strings.Join(blocks, "\n")
}

func rootHeader(root string) string {
	return filepath.ToSlash(root)
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(fsys afero.Fs, path string, logger *zap.Logger) error {
	if err := fsys.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// writeToFile writes data to a file and logs the operation.
func writeToFile(fsys afero.Fs, path string, data []byte, perm os.FileMode, logger *zap.Logger) error {
	if err := afero.WriteFile(fsys, path, data, perm); err != nil {
		logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote file", zap.String("path", path))
	return nil
}
