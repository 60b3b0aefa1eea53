// File: pkg/treegen/config.go
package treegen

// Arguments holds the configuration options for a rendering run.
type Arguments struct {
	Paths          []string // Roots to render, in output order.
	Output         string   // Optional destination file for the rendered text.
	Style          Style    // Validated formatting tokens.
	IgnorePatterns []string // Glob patterns given inline.
	IgnoreFile     string   // Optional pattern file; must exist when set.
	UseTreeignore  bool     // Load .treeignore from the working directory; must exist when set.
	UseGitignore   bool     // Also honour each root's .gitignore.
	Print          bool     // Echo lines to stdout while rendering.
	FollowSymlinks bool     // Descend into symlinked directories.
	MaxWorkers     int      // Concurrent roots; <= 0 means runtime.NumCPU().
	WorkingDir     string   // Base for .treeignore lookup; empty means os.Getwd().
}
