package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
}

func TestWalkCollectsRegularFilesSorted(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "docs", "b.pdf"))
	writeTestFile(t, filepath.Join(root, "docs", "a.pdf"))
	writeTestFile(t, filepath.Join(root, "top.txt"))

	paths, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(root, "docs", "a.pdf"), paths[0])
	assert.Equal(t, filepath.Join(root, "docs", "b.pdf"), paths[1])
	assert.Equal(t, filepath.Join(root, "top.txt"), paths[2])
}

func TestWalkSkipsStateDir(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "keep.txt"))
	writeTestFile(t, filepath.Join(root, ".filesift", "filesift.db"))
	writeTestFile(t, filepath.Join(root, ".filesift", "nested", "plan.csv"))

	paths, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(root, "keep.txt"), paths[0])
}

func TestWalkIgnoresSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.txt")
	writeTestFile(t, target)
	link := filepath.Join(root, "alias.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	paths, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, target, paths[0])
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
