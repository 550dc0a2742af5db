package blob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash(t *testing.T) {
	hash := ContentHash([]byte("hello"))
	assert.Len(t, hash, 10)
	assert.Equal(t, hash, ContentHash([]byte("hello")))
	assert.NotEqual(t, hash, ContentHash([]byte("world")))
}

func TestLocalStoreSaveLoadDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	content := []byte("document body")
	ref, err := s.Save("report.txt", content)
	require.NoError(t, err)

	assert.Equal(t, StorageTypeLocal, ref.StorageType)
	assert.Equal(t, "report.txt", ref.Filename)
	assert.Equal(t, SafeName(ContentHash(content), "report.txt"), ref.SafeName)
	assert.Equal(t, int64(len(content)), ref.Size)
	assert.Equal(t, filepath.Join(dir, ref.SafeName), ref.Location)

	loaded, err := s.Load(ref)
	require.NoError(t, err)
	assert.Equal(t, content, loaded)

	require.NoError(t, s.Delete(ref))
	_, err = os.Stat(ref.Location)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.Delete(ref), ErrNotFound)
	_, err = s.Load(ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreSaveIsIdempotent(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref1, err := s.Save("a.txt", []byte("same bytes"))
	require.NoError(t, err)
	ref2, err := s.Save("a.txt", []byte("same bytes"))
	require.NoError(t, err)

	assert.Equal(t, ref1.Location, ref2.Location)
}

func TestLocalStoreStripsPathComponents(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref, err := s.Save("../../etc/passwd.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "passwd.txt", ref.Filename)
	assert.NotContains(t, ref.SafeName, "/")
}
