package slob

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetTagValueOnFinalizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.slob")
	w, err := NewWriter(path)
	require.NoError(t, err)
	w.Tag("title", "original")
	require.NoError(t, w.Add([]byte("body"), "text/plain", K("key")))
	require.NoError(t, w.Finalize())

	require.NoError(t, SetTagValue(path, "title", "updated"))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, "updated", r.Tags()["title"])
}
