package slob

import (
	"bytes"
	"testing"

	"github.com/arloliu/goslob/structcodec"
	"github.com/stretchr/testify/require"
)

func identityCompress(b []byte) ([]byte, error) { return b, nil }

// decodeEntryCTypeIDs parses just enough of a BinBuilder.Finalize entry to
// recover the content_type_ids directory, mirroring store.decodeItem's
// field order without reaching into the store package's internals.
func decodeEntryCTypeIDs(t *testing.T, entry []byte) []uint8 {
	t.Helper()
	r := structcodec.NewReader(bytes.NewReader(entry), nil)
	count, err := r.ReadUint32()
	require.NoError(t, err)
	ids := make([]uint8, count)
	for i := range ids {
		b, err := r.ReadByte()
		require.NoError(t, err)
		ids[i] = b
	}
	return ids
}

func TestBinBuilderAddAndFinalize(t *testing.T) {
	b := NewBinBuilder()
	require.Equal(t, 0, b.Len())

	idx0, err := b.Add(3, []byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, 0, idx0)

	idx1, err := b.Add(7, []byte("beta"))
	require.NoError(t, err)
	require.Equal(t, 1, idx1)

	require.Equal(t, 2, b.Len())
	require.Greater(t, b.Size(), int64(0))

	entry, err := b.Finalize(identityCompress)
	require.NoError(t, err)
	require.NotEmpty(t, entry)
	require.Equal(t, []uint8{3, 7}, decodeEntryCTypeIDs(t, entry))

	// Finalize clears the builder for reuse.
	require.Equal(t, 0, b.Len())
	require.Equal(t, int64(0), b.Size())
}

func TestBinBuilderReusableAfterFinalize(t *testing.T) {
	b := NewBinBuilder()
	_, err := b.Add(1, []byte("first bin"))
	require.NoError(t, err)
	_, err = b.Finalize(identityCompress)
	require.NoError(t, err)

	idx, err := b.Add(2, []byte("second bin"))
	require.NoError(t, err)
	require.Equal(t, 0, idx, "index numbering restarts after Finalize clears the builder")
}
