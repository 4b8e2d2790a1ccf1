package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewUploadStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	require.NoError(t, store.Save("a.png", []byte("png")))
	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestUploadStoreRejectsPaths(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../escape.png", "sub/a.png", "..", "."} {
		assert.Error(t, store.Save(name, []byte("x")), name)
	}
}
