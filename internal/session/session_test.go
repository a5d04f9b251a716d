package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileMeansUnauthenticated(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"))
	token, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewStore(path)

	require.NoError(t, s.Save("tok-abc"))

	token, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)

	// Credential file is user-only readable.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, s.Clear())
	token, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing twice is fine.
	assert.NoError(t, s.Clear())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	s := NewStore(path)
	_, err := s.Load()
	assert.Error(t, err)
}
