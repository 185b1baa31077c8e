package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "nested", "figure1.png")

	require.NoError(t, SaveFile(path, []byte("png")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveFileReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figure.png")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0644))

	require.NoError(t, SaveFile(path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestSaveFileIntoMissingDirectoryUnderFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := SaveFile(filepath.Join(blocker, "figure.png"), []byte("x"))
	assert.Error(t, err)
}
