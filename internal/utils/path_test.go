package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("empty path errors", func(t *testing.T) {
		_, err := ResolvePath("")
		assert.Error(t, err)
	})

	t.Run("relative becomes absolute", func(t *testing.T) {
		resolved, err := ResolvePath(".")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(resolved))
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		resolved, err := ResolvePath("~/notes")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "notes"), resolved)
	})
}

func TestNormPath(t *testing.T) {
	assert.Equal(t, "a/b/c.md", NormPath(filepath.Join("a", "b", "c.md")))
	assert.Equal(t, "a.md", NormPath("./a.md"))
}

func TestEnsureDirAndParent(t *testing.T) {
	tmp := t.TempDir()

	nested := filepath.Join(tmp, "x", "y", "z")
	require.NoError(t, EnsureDir(nested))
	assert.True(t, DirExists(nested))

	// idempotent
	require.NoError(t, EnsureDir(nested))

	filePath := filepath.Join(tmp, "a", "b", "file.txt")
	require.NoError(t, EnsureParent(filePath))
	assert.True(t, DirExists(filepath.Dir(filePath)))
	assert.False(t, FileExists(filePath))

	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))
	assert.True(t, FileExists(filePath))
	assert.False(t, DirExists(filePath))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "*****", MaskSecret(""))
	assert.Equal(t, "*****", MaskSecret("abcd"))
	assert.Equal(t, "abcd*****", MaskSecret("abcdefgh"))
}
