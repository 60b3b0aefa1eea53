// File: pkg/treegen/tree.go
package treegen

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/drengskapur/treegen/pkg/ignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Generator renders a directory tree. A Generator is read-only during
// Generate and may be shared by concurrent calls as long as Sink is nil or
// safe for concurrent writes.
type Generator struct {
	Fs             afero.Fs       // Filesystem to read; nil means the OS filesystem.
	Style          Style          // Formatting tokens.
	Ignore         ignore.Matcher // Prunes matching entries and their subtrees; may be nil.
	Echo           bool           // Write each line to Sink as soon as it is produced.
	Sink           io.Writer      // Echo destination; nil means os.Stdout.
	FollowSymlinks bool           // Descend into symlinks that point at directories.
	Logger         *zap.Logger
}

// Generate lists root and renders all of its non-ignored descendants in
// depth-first, name-sorted order. The root itself produces no line. On error
// no partial output is returned.
func Generate(root string, style Style, rules []string, echo bool) ([]string, error) {
	generator := &Generator{
		Style:          style,
		Ignore:         ignore.NewRuleSet(rules...),
		Echo:           echo,
		FollowSymlinks: true,
	}
	rendering, err := generator.Generate(root)
	if err != nil {
		return nil, err
	}
	return rendering.Lines, nil
}

// child is a directory entry that survived ignore filtering.
type child struct {
	name  string
	path  string
	isDir bool
}

// frame is one directory on the traversal stack.
type frame struct {
	indent   string
	children []child
	next     int
}

// Generate renders the tree below root.
func (g *Generator) Generate(root string) (Rendering, error) {
	logger := g.logger()
	var sink io.Writer
	if g.Echo {
		sink = g.Sink
		if sink == nil {
			sink = os.Stdout
		}
	}
	acc := newAccumulator(sink)

	rootFrame, err := g.openFrame(root, "")
	if err != nil {
		return Rendering{}, err
	}

	stack := []*frame{rootFrame}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.children) {
			stack = stack[:len(stack)-1]
			continue
		}

		entry := top.children[top.next]
		top.next++
		isLast := top.next == len(top.children)

		line, childIndent := FormatLine(Entry{Name: entry.name, IsDir: entry.isDir, IsLast: isLast}, top.indent, g.Style)
		if err := acc.add(line); err != nil {
			logger.Error("Failed to echo tree line", zap.String("path", entry.path), zap.Error(err))
			return Rendering{}, err
		}

		if entry.isDir {
			subFrame, err := g.openFrame(entry.path, childIndent)
			if err != nil {
				return Rendering{}, err
			}
			stack = append(stack, subFrame)
		}
	}

	return Rendering{Root: root, Lines: acc.lines}, nil
}

// openFrame confirms that directory exists, lists it, sorts the entries by
// name and drops ignored ones. The last-sibling marker is decided against
// the filtered list.
func (g *Generator) openFrame(directory, indent string) (*frame, error) {
	logger := g.logger()
	fsys := g.fs()

	if _, err := fsys.Stat(directory); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Path does not exist", zap.String("path", directory))
			return nil, fmt.Errorf("%w: '%s'", ErrPathNotFound, directory)
		}
		return nil, fmt.Errorf("stat %s: %w", directory, err)
	}

	infos, err := afero.ReadDir(fsys, directory)
	if err != nil {
		logger.Warn("Failed to read directory for tree structure", zap.String("directory", directory), zap.Error(err))
		return nil, fmt.Errorf("failed to read directory '%s': %w", directory, err)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	children := make([]child, 0, len(infos))
	for _, info := range infos {
		entryPath := joinEntryPath(directory, info.Name())
		isDir := info.IsDir()

		if g.Ignore != nil {
			if matched, pattern := g.Ignore.MatchesPathWithPattern(entryPath, isDir); matched {
				logger.Debug("Skipping ignored entry", zap.String("path", entryPath), zap.String("pattern", pattern))
				continue
			}
		}

		if info.Mode()&os.ModeSymlink != 0 && g.FollowSymlinks {
			target, err := fsys.Stat(entryPath)
			switch {
			case err == nil:
				isDir = target.IsDir()
			case linkExists(fsys, entryPath):
				logger.Debug("Rendering dangling symlink as a file", zap.String("path", entryPath), zap.Error(err))
			default:
				return nil, fmt.Errorf("stat %s: %w", entryPath, err)
			}
		}

		children = append(children, child{name: info.Name(), path: entryPath, isDir: isDir})
	}

	logger.Debug("Listed directory",
		zap.String("directory", directory),
		zap.Int("entries", len(infos)),
		zap.Int("rendered", len(children)))
	return &frame{indent: indent, children: children}, nil
}

// joinEntryPath appends name to directory without cleaning, so "." yields
// "./name" and ignore patterns see the root exactly as it was given.
func joinEntryPath(directory, name string) string {
	if directory == "" {
		return name
	}
	if os.IsPathSeparator(directory[len(directory)-1]) {
		return directory + name
	}
	return directory + string(filepath.Separator) + name
}

// linkExists reports whether the link itself is still present.
func linkExists(fsys afero.Fs, path string) bool {
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return false
	}
	_, _, err := lstater.LstatIfPossible(path)
	return err == nil
}

func (g *Generator) fs() afero.Fs {
	if g.Fs == nil {
		return afero.NewOsFs()
	}
	return g.Fs
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
