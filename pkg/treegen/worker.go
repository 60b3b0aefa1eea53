// File: pkg/treegen/worker.go
package treegen

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/drengskapur/treegen/pkg/ignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// renderRoots renders each root with its own Generator and returns the
// results in argument order. Roots run concurrently unless lines are echoed,
// in which case they run one at a time so that echoed output stays ordered.
// The first failure cancels the roots that have not started yet.
func renderRoots(ctx context.Context, fsys afero.Fs, args Arguments, rules *ignore.RuleSet, stdout io.Writer, logger *zap.Logger) ([]Rendering, error) {
	maxWorkers := args.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}
	if args.Print {
		maxWorkers = 1
	}

	results := make([]Rendering, len(args.Paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxWorkers)

	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers), zap.Int("roots", len(args.Paths)))
	for index, root := range args.Paths {
		workerLogger := logger.With(zap.Int("rootIndex", index), zap.String("root", root))
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			matcher, err := rootMatcher(fsys, root, args, rules, workerLogger)
			if err != nil {
				return err
			}

			if args.Print && len(args.Paths) > 1 {
				if index > 0 {
					if _, err := fmt.Fprintln(stdout); err != nil {
						return fmt.Errorf("echo tree header: %w", err)
					}
				}
				if _, err := fmt.Fprintln(stdout, rootHeader(root)); err != nil {
					return fmt.Errorf("echo tree header: %w", err)
				}
			}

			generator := &Generator{
				Fs:             fsys,
				Style:          args.Style,
				Ignore:         matcher,
				Echo:           args.Print,
				Sink:           stdout,
				FollowSymlinks: args.FollowSymlinks,
				Logger:         workerLogger,
			}
			rendering, err := generator.Generate(root)
			if err != nil {
				workerLogger.Warn("Failed to render root", zap.Error(err))
				return err
			}
			results[index] = rendering
			workerLogger.Debug("Rendered root", zap.Int("lines", rendering.Len()))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// rootMatcher combines the shared glob rules with the root's .gitignore when requested.
func rootMatcher(fsys afero.Fs, root string, args Arguments, rules *ignore.RuleSet, logger *zap.Logger) (ignore.Matcher, error) {
	if !args.UseGitignore {
		return rules, nil
	}
	if info, err := fsys.Stat(root); err != nil || !info.IsDir() {
		// Generate reports the unusable root.
		return rules, nil
	}
	gitIgnore, err := ignore.LoadGitIgnore(fsys, root, logger)
	if err != nil {
		return nil, fmt.Errorf("load gitignore for %s: %w", root, err)
	}
	return ignore.Chain{rules, gitIgnore}, nil
}
