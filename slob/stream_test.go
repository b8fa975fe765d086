package slob

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendStreamWriteAndOffset(t *testing.T) {
	dir := t.TempDir()
	s, err := newAppendStream(dir, "data")
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, int64(0), s.Offset())
	n, err := s.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, int64(5), s.Offset())

	n, err = s.Write([]byte("!!"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, int64(7), s.Offset())
}

func TestAppendStreamReopenPicksUpReplacedContents(t *testing.T) {
	dir := t.TempDir()
	s, err := newAppendStream(dir, "data")
	require.NoError(t, err)

	_, err = s.Write([]byte("original"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, os.WriteFile(s.path, []byte("replaced-contents"), 0o644))
	require.NoError(t, s.Reopen())
	require.Equal(t, int64(len("replaced-contents")), s.Offset())

	n, err := s.Write([]byte("!"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	s.Close()
	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	require.Equal(t, "replaced-contents!", string(data))
}

func TestAppendStreamRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := newAppendStream(dir, "data")
	require.NoError(t, err)
	path := s.path
	require.NoError(t, s.Remove())

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
