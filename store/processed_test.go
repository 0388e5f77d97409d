package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*ProcessedStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpenCreatesDatabase(t *testing.T) {
	_, path := openTestStore(t)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSeenUnknownReference(t *testing.T) {
	s, _ := openTestStore(t)
	seen, err := s.Seen("INV-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMarkThenSeen(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Mark("INV-1"))

	seen, err := s.Seen("INV-1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = s.Seen("INV-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMarkIsIdempotent(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Mark("INV-1"))
	require.NoError(t, s.Mark("INV-1"))

	seen, err := s.Seen("INV-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMarksSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Mark("INV-1"))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	seen, err := s2.Seen("INV-1")
	require.NoError(t, err)
	assert.True(t, seen)
}
