package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "uploads", "cars")

	got, err := EnsureDir(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	again, err := EnsureDir(target)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureDir(filepath.Join(blocker, "cars"))
	assert.Error(t, err)
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	p, err := SafeJoin(root, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a.jpg"), p)

	p, err = SafeJoin(root, "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "passwd"), p)

	_, err = SafeJoin(root, "")
	assert.Error(t, err)
}
