package slob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindPartsMatchesPrefixOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"dict.slob-1", "dict.slob-2", "dict.slob-10", "other.slob"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	parts, err := FindParts(filepath.Join(dir, "dict.slob"))
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "dict.slob-1"),
		filepath.Join(dir, "dict.slob-10"),
		filepath.Join(dir, "dict.slob-2"),
	}, parts)
}

func TestFindPartsNoMatches(t *testing.T) {
	dir := t.TempDir()
	parts, err := FindParts(filepath.Join(dir, "missing.slob"))
	require.NoError(t, err)
	require.Empty(t, parts)
}
