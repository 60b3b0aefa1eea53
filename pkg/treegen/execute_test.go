package treegen

import (
	"bytes"
	"context"
	"testing"

	"github.com/drengskapur/treegen/pkg/ignore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunWritesToStdout(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/r", "a.txt", "sub/c.txt")
	var stdout bytes.Buffer

	text, err := Run(context.Background(), fsys, Arguments{Paths: []string{"/r"}, Style: Full}, &stdout, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "|-- a.txt\n`-- sub:\n    `-- c.txt\n", text)
	assert.Equal(t, text, stdout.String())
}

func TestRunWritesOutputFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/r", "a.txt")
	var stdout bytes.Buffer

	text, err := Run(context.Background(), fsys, Arguments{
		Paths:  []string{"/r"},
		Style:  Full,
		Output: "/out/nested/tree.txt",
	}, &stdout, nil)
	require.NoError(t, err)
	assert.Zero(t, stdout.Len())

	written, err := afero.ReadFile(fsys, "/out/nested/tree.txt")
	require.NoError(t, err)
	assert.Equal(t, text, string(written))
	assert.Equal(t, "`-- a.txt\n", string(written))
}

func TestRunPrintEchoesOnce(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/r", "a.txt", "b.txt")
	var stdout bytes.Buffer

	text, err := Run(context.Background(), fsys, Arguments{
		Paths: []string{"/r"},
		Style: Full,
		Print: true,
	}, &stdout, nil)
	require.NoError(t, err)
	assert.Equal(t, "|-- a.txt\n`-- b.txt\n", stdout.String())
	assert.Equal(t, text, stdout.String())
}

func TestRunMultipleRootsKeepArgumentOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/one", "x.txt")
	buildTree(t, fsys, "/two", "y/z.txt")
	buildTree(t, fsys, "/three")
	expected := "/two\n`-- y:\n    `-- z.txt\n\n/one\n`-- x.txt\n\n/three\n"

	for _, echo := range []bool{false, true} {
		var stdout bytes.Buffer
		text, err := Run(context.Background(), fsys, Arguments{
			Paths:      []string{"/two", "/one", "/three"},
			Style:      Full,
			Print:      echo,
			MaxWorkers: 3,
		}, &stdout, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, expected, text)
		assert.Equal(t, expected, stdout.String(), "print=%v", echo)
	}
}

func TestRunFailsWhenAnyRootIsMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/one", "x.txt")
	var stdout bytes.Buffer

	text, err := Run(context.Background(), fsys, Arguments{
		Paths: []string{"/one", "/missing"},
		Style: Full,
	}, &stdout, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathNotFound)
	assert.Empty(t, text)
	assert.Zero(t, stdout.Len())
}

func TestRunTreeignore(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/r", "keep.txt", "drop.tmp", "cache/blob")
	require.NoError(t, afero.WriteFile(fsys, "/work/.treeignore", []byte("# scratch\n*.tmp\n*/cache\n"), 0o644))
	var stdout bytes.Buffer

	text, err := Run(context.Background(), fsys, Arguments{
		Paths:         []string{"/r"},
		Style:         Full,
		UseTreeignore: true,
		WorkingDir:    "/work",
	}, &stdout, nil)
	require.NoError(t, err)
	assert.Equal(t, "`-- keep.txt\n", text)
}

func TestRunMissingPatternFileIsConfigurationError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/r", "a.txt")

	testCases := []struct {
		name string
		args Arguments
	}{
		{name: "treeignore", args: Arguments{UseTreeignore: true, WorkingDir: "/work"}},
		{name: "explicit_file", args: Arguments{IgnoreFile: "/etc/none.ignore"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			args := testCase.args
			args.Paths = []string{"/r"}
			args.Style = Full
			var stdout bytes.Buffer

			_, err := Run(context.Background(), fsys, args, &stdout, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.ErrorIs(t, err, ignore.ErrPatternFileNotFound)
			assert.Zero(t, stdout.Len())
		})
	}
}

func TestLoadIgnoreCombinesSources(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/work/.treeignore", []byte("*.tmp\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/etc/extra.ignore", []byte("*.bak\n"), 0o644))

	rules, err := LoadIgnore(fsys, Arguments{
		IgnorePatterns: []string{"*.log"},
		UseTreeignore:  true,
		WorkingDir:     "/work",
		IgnoreFile:     "/etc/extra.ignore",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"*.log", "*.tmp", "*.bak"}, rules.Patterns())
}

func TestRunGitignore(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/r", "build/app", "main.go", "debug.log")
	require.NoError(t, afero.WriteFile(fsys, "/r/.gitignore", []byte("build/\n*.log\n"), 0o644))
	var stdout bytes.Buffer

	text, err := Run(context.Background(), fsys, Arguments{
		Paths:        []string{"/r"},
		Style:        Full,
		UseGitignore: true,
	}, &stdout, nil)
	require.NoError(t, err)
	assert.Equal(t, "|-- .gitignore\n`-- main.go\n", text)
}

func TestRunCancelledContext(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys, "/r", "a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout bytes.Buffer

	_, err := Run(ctx, fsys, Arguments{Paths: []string{"/r"}, Style: Full}, &stdout, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
