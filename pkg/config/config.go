// Package config loads rendering settings from a config file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/drengskapur/treegen/pkg/treegen"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = ".treegen.yaml"
	// EnvPrefix prefixes environment overrides, e.g. TREEGEN_STYLE.
	EnvPrefix = "TREEGEN"
	// ConfigFlagName is the flag holding an explicit config path; it is never bound as a setting.
	ConfigFlagName = "config"
)

// Setting keys. Flags use the same names.
const (
	KeyStyle                = "style"
	KeyLinePrefix           = "line-prefix"
	KeyLastLinePrefix       = "last-line-prefix"
	KeyDirectoryPrefix      = "directory-prefix"
	KeyDirectorySuffix      = "directory-suffix"
	KeySpacer               = "spacer"
	KeyPrefixPrecedesSpacer = "prefix-precedes-spacer"
	KeyIgnore               = "ignore"
	KeyIgnoreFile           = "ignore-file"
	KeyTreeignore           = "treeignore"
	KeyGitignore            = "gitignore"
	KeyPrint                = "print"
	KeyOut                  = "out"
	KeyFollowSymlinks       = "follow-symlinks"
	KeyWorkers              = "workers"
	KeyDebug                = "debug"
)

var settingKeys = []string{
	KeyStyle, KeyLinePrefix, KeyLastLinePrefix, KeyDirectoryPrefix, KeyDirectorySuffix,
	KeySpacer, KeyPrefixPrecedesSpacer, KeyIgnore, KeyIgnoreFile, KeyTreeignore,
	KeyGitignore, KeyPrint, KeyOut, KeyFollowSymlinks, KeyWorkers, KeyDebug,
}

// LoadOptions controls how configuration is discovered.
type LoadOptions struct {
	Fs               afero.Fs       // Filesystem holding config files; nil means the OS filesystem.
	WorkingDirectory string         // Directory searched for FileName.
	ExplicitFilePath string         // Config file that must exist; relative paths resolve against WorkingDirectory.
	Flags            *pflag.FlagSet // Only flags changed on the command line are applied.
}

// Configuration is the merged view of every source. Style tokens are
// pointers so that an unset token keeps the preset's value.
type Configuration struct {
	Style                string   `mapstructure:"style"`
	LinePrefix           *string  `mapstructure:"line-prefix"`
	LastLinePrefix       *string  `mapstructure:"last-line-prefix"`
	DirectoryPrefix      *string  `mapstructure:"directory-prefix"`
	DirectorySuffix      *string  `mapstructure:"directory-suffix"`
	Spacer               *string  `mapstructure:"spacer"`
	PrefixPrecedesSpacer *bool    `mapstructure:"prefix-precedes-spacer"`
	Ignore               []string `mapstructure:"ignore"`
	IgnoreFile           string   `mapstructure:"ignore-file"`
	Treeignore           bool     `mapstructure:"treeignore"`
	Gitignore            bool     `mapstructure:"gitignore"`
	Print                bool     `mapstructure:"print"`
	Out                  string   `mapstructure:"out"`
	FollowSymlinks       bool     `mapstructure:"follow-symlinks"`
	Workers              int      `mapstructure:"workers"`
	Debug                bool     `mapstructure:"debug"`

	// WorkingDirectory is where the configuration was resolved from.
	WorkingDirectory string `mapstructure:"-"`
}

// Load merges defaults, the config file, TREEGEN_* environment variables and
// changed flags.
func Load(options LoadOptions) (Configuration, error) {
	fsys := options.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	reader := viper.New()
	reader.SetFs(fsys)
	reader.SetDefault(KeyStyle, treegen.DefaultPreset)
	reader.SetDefault(KeyFollowSymlinks, true)
	reader.SetDefault(KeyWorkers, 0)

	reader.SetEnvPrefix(EnvPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range settingKeys {
		if err := reader.BindEnv(key); err != nil {
			return Configuration{}, fmt.Errorf("bind environment for %s: %w", key, err)
		}
	}

	configPath, err := resolveConfigPath(fsys, options.WorkingDirectory, options.ExplicitFilePath)
	if err != nil {
		return Configuration{}, err
	}
	if configPath != "" {
		reader.SetConfigFile(configPath)
		if readErr := reader.ReadInConfig(); readErr != nil {
			return Configuration{}, fmt.Errorf("%w: read configuration from %s: %w", treegen.ErrConfiguration, configPath, readErr)
		}
	}

	if options.Flags != nil {
		var bindErr error
		options.Flags.Visit(func(flag *pflag.Flag) {
			if flag.Name == ConfigFlagName || bindErr != nil {
				return
			}
			bindErr = reader.BindPFlag(flag.Name, flag)
		})
		if bindErr != nil {
			return Configuration{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var config Configuration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return Configuration{}, fmt.Errorf("%w: decode configuration: %w", treegen.ErrConfiguration, decodeErr)
	}
	config.WorkingDirectory = options.WorkingDirectory
	return config, nil
}

// resolveConfigPath returns the explicit path, which must exist, or the
// local FileName when present, or "".
func resolveConfigPath(fsys afero.Fs, workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		path := explicitPath
		if !filepath.IsAbs(path) && workingDirectory != "" {
			path = filepath.Join(workingDirectory, path)
		}
		info, err := fsys.Stat(path)
		if err != nil {
			return "", fmt.Errorf("%w: configuration file %s: %w", treegen.ErrConfiguration, path, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: configuration path %s is a directory", treegen.ErrConfiguration, path)
		}
		return path, nil
	}

	if workingDirectory == "" {
		return "", nil
	}
	localPath := filepath.Join(workingDirectory, FileName)
	info, err := fsys.Stat(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat configuration %s: %w", localPath, err)
	}
	if info.IsDir() {
		return "", nil
	}
	return localPath, nil
}

// StyleOptions starts from the selected preset and applies token overrides.
func (config Configuration) StyleOptions() (treegen.StyleOptions, error) {
	name := config.Style
	if strings.TrimSpace(name) == "" {
		name = treegen.DefaultPreset
	}
	options, err := treegen.PresetOptions(name)
	if err != nil {
		return treegen.StyleOptions{}, err
	}
	overrideString(&options.LinePrefix, config.LinePrefix)
	overrideString(&options.LastLinePrefix, config.LastLinePrefix)
	overrideString(&options.DirectoryPrefix, config.DirectoryPrefix)
	overrideString(&options.DirectorySuffix, config.DirectorySuffix)
	overrideString(&options.Spacer, config.Spacer)
	if config.PrefixPrecedesSpacer != nil {
		options.MarkerInSpacer = !*config.PrefixPrecedesSpacer
	}
	return options, nil
}

// ResolveStyle validates the effective style.
func (config Configuration) ResolveStyle() (treegen.Style, error) {
	options, err := config.StyleOptions()
	if err != nil {
		return treegen.Style{}, err
	}
	return treegen.NewStyle(options)
}

// Arguments converts the configuration into rendering arguments for paths.
func (config Configuration) Arguments(paths []string) (treegen.Arguments, error) {
	style, err := config.ResolveStyle()
	if err != nil {
		return treegen.Arguments{}, err
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return treegen.Arguments{
		Paths:          paths,
		Output:         config.Out,
		Style:          style,
		IgnorePatterns: config.Ignore,
		IgnoreFile:     config.IgnoreFile,
		UseTreeignore:  config.Treeignore,
		UseGitignore:   config.Gitignore,
		Print:          config.Print,
		FollowSymlinks: config.FollowSymlinks,
		MaxWorkers:     config.Workers,
		WorkingDir:     config.WorkingDirectory,
	}, nil
}

func overrideString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}
