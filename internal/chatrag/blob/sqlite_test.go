package blob

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return s
}

func TestSQLiteStoreSaveLoadDelete(t *testing.T) {
	s := newSQLiteStore(t)

	content := []byte("database-backed document")
	ref, err := s.Save("notes.md", content)
	require.NoError(t, err)

	assert.Equal(t, StorageTypeSQLite, ref.StorageType)
	assert.Equal(t, "notes.md", ref.Filename)
	assert.Equal(t, ref.SafeName, ref.Location)

	loaded, err := s.Load(ref)
	require.NoError(t, err)
	assert.Equal(t, content, loaded)

	require.NoError(t, s.Delete(ref))
	assert.ErrorIs(t, s.Delete(ref), ErrNotFound)
	_, err = s.Load(ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreSaveIsIdempotent(t *testing.T) {
	s := newSQLiteStore(t)

	ref1, err := s.Save("a.txt", []byte("same bytes"))
	require.NoError(t, err)
	ref2, err := s.Save("a.txt", []byte("same bytes"))
	require.NoError(t, err)
	assert.Equal(t, ref1.SafeName, ref2.SafeName)

	loaded, err := s.Load(ref1)
	require.NoError(t, err)
	assert.Equal(t, []byte("same bytes"), loaded)
}
