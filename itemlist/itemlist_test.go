package itemlist

import (
	"bytes"
	"testing"

	"github.com/arloliu/goslob/structcodec"
	"github.com/stretchr/testify/require"
)

// memSeeker adapts a bytes.Reader to the rawSource interface New expects.
type memSeeker struct {
	*bytes.Reader
}

func newMemSeeker(data []byte) *memSeeker {
	return &memSeeker{Reader: bytes.NewReader(data)}
}

func lenPrefixedDecoder(r *structcodec.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func TestItemListFixedCount(t *testing.T) {
	var buf bytes.Buffer
	// two u32 positions: 0, 3
	buf.Write([]byte{0, 0, 0, 0})
	buf.Write([]byte{0, 0, 0, 3})
	// data area: length-prefixed strings back to back
	buf.Write([]byte{2, 'h', 'i'})      // pos 0: "hi"
	buf.Write([]byte{3, 'f', 'o', 'o'}) // pos 3: "foo"

	src := newMemSeeker(buf.Bytes())
	list, err := New[string](src, 0, 2, Pos32, lenPrefixedDecoder, nil)
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())

	v0, err := list.Get(0)
	require.NoError(t, err)
	require.Equal(t, "hi", v0)

	v1, err := list.Get(1)
	require.NoError(t, err)
	require.Equal(t, "foo", v1)
}

func TestItemListOutOfRange(t *testing.T) {
	src := newMemSeeker([]byte{})
	list, err := New[string](src, 0, 0, Pos32, lenPrefixedDecoder, nil)
	require.NoError(t, err)
	_, err = list.Get(0)
	require.Error(t, err)
}

func TestItemListWithCountPrefix(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 2}) // u32 count = 2
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0}) // u64 pos 0
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 3}) // u64 pos 3
	buf.Write([]byte{2, 'h', 'i'})
	buf.Write([]byte{3, 'f', 'o', 'o'})

	src := newMemSeeker(buf.Bytes())
	list, err := NewWithCountPrefix[string](src, 0, Pos64, lenPrefixedDecoder, nil)
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())

	v1, err := list.Get(1)
	require.NoError(t, err)
	require.Equal(t, "foo", v1)
}
