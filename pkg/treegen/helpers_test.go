package treegen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// buildTree creates entries below root. Entries ending in "/" are
// directories, everything else is a file.
func buildTree(t *testing.T, fsys afero.Fs, root string, entries ...string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(root, 0o755))
	for _, entry := range entries {
		absPath := filepath.Join(root, filepath.FromSlash(entry))
		if strings.HasSuffix(entry, "/") {
			require.NoError(t, fsys.MkdirAll(absPath, 0o755), "create directory %s", absPath)
			continue
		}
		require.NoError(t, fsys.MkdirAll(filepath.Dir(absPath), 0o755))
		require.NoError(t, afero.WriteFile(fsys, absPath, []byte(entry), 0o644), "write file %s", absPath)
	}
}

// vanishingFs reports one directory as missing even though its parent lists it.
type vanishingFs struct {
	afero.Fs
	gone string
}

func (v vanishingFs) Stat(name string) (os.FileInfo, error) {
	if filepath.Clean(name) == filepath.Clean(v.gone) {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}
	return v.Fs.Stat(name)
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}
