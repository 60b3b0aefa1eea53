package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/drengskapur/treegen/pkg/config"
	"github.com/drengskapur/treegen/pkg/logging"
	"github.com/drengskapur/treegen/pkg/treegen"
	"github.com/drengskapur/treegen/pkg/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Dependencies are the process resources the root command works against.
type Dependencies struct {
	Fs               afero.Fs                              // nil means the OS filesystem.
	NewLogger        func(debug bool) (*zap.Logger, error) // nil means logging.Setup.
	WorkingDirectory string                                // Empty means os.Getwd().
}

// NewRootCommand builds the treegen command: it renders each path argument
// (default ".") as an indented tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "treegen [path...]",
		Short: "Render directory trees as indented text",
		Long: `treegen lists directories recursively and prints them as an indented tree.
Styles, ignore patterns and output destinations can be set with flags, TREEGEN_* environment
variables or a .treegen.yaml file in the working directory.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, deps, configPath, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, config.ConfigFlagName, "", "Path to a configuration file (default ./"+config.FileName+")")
	flags.StringP(config.KeyStyle, "s", treegen.DefaultPreset, fmt.Sprintf("Preset style, one of %v", treegen.PresetNames()))
	flags.String(config.KeyLinePrefix, "", "Override the marker for non-final siblings")
	flags.String(config.KeyLastLinePrefix, "", "Override the marker for the final sibling")
	flags.String(config.KeyDirectoryPrefix, "", "Override the text placed before directory names")
	flags.String(config.KeyDirectorySuffix, "", "Override the text placed after directory names")
	flags.String(config.KeySpacer, "", "Override the text between marker and name")
	flags.Bool(config.KeyPrefixPrecedesSpacer, true, "Print the marker in front of the spacer")
	flags.StringArrayP(config.KeyIgnore, "i", nil, "Glob pattern to ignore (repeatable)")
	flags.String(config.KeyIgnoreFile, "", "File with one ignore pattern per line")
	flags.Bool(config.KeyTreeignore, false, "Load ignore patterns from ./.treeignore")
	flags.Bool(config.KeyGitignore, false, "Also honour each root's .gitignore")
	flags.BoolP(config.KeyPrint, "p", false, "Print lines as they are produced")
	flags.StringP(config.KeyOut, "o", "", "Write the tree to this file instead of stdout")
	flags.Bool(config.KeyFollowSymlinks, true, "Descend into symlinked directories")
	flags.Int(config.KeyWorkers, 0, "Roots rendered concurrently (default number of CPUs)")
	rootCmd.PersistentFlags().Bool(config.KeyDebug, false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func runTree(cmd *cobra.Command, deps Dependencies, configPath string, paths []string) error {
	workingDir := deps.WorkingDirectory
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current working directory: %w", err)
		}
		workingDir = wd
	}

	fsys := deps.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	settings, err := config.Load(config.LoadOptions{
		Fs:               fsys,
		WorkingDirectory: workingDir,
		ExplicitFilePath: configPath,
		Flags:            cmd.Flags(),
	})
	if err != nil {
		return err
	}

	newLogger := deps.NewLogger
	if newLogger == nil {
		newLogger = func(debug bool) (*zap.Logger, error) {
			return logging.Setup(debug, version.AppName, version.Version)
		}
	}
	logger, err := newLogger(settings.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	arguments, err := settings.Arguments(paths)
	if err != nil {
		return err
	}
	logger.Debug("Resolved configuration",
		zap.Strings("paths", arguments.Paths),
		zap.String("style", settings.Style),
		zap.Strings("ignore", arguments.IgnorePatterns),
		zap.Int("workers", arguments.MaxWorkers))

	_, err = treegen.Run(cmd.Context(), fsys, arguments, cmd.OutOrStdout(), logger)
	return err
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand(Dependencies{}).ExecuteContext(ctx)
}
