package compression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry()
	data := []byte("the quick brown fox jumps over the lazy dog, repeated. the quick brown fox jumps over the lazy dog.")

	for _, name := range []string{"", "zlib", "bz2", "lzma2"} {
		t.Run(name, func(t *testing.T) {
			codec, ok := reg.Lookup(name)
			require.True(t, ok, "codec %q should be registered", name)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			out, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, out)
		})
	}
}

func TestRegistryUnknownName(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Lookup("snappy")
	require.False(t, ok)
}

func TestRegistryMissingCodecDoesNotAbort(t *testing.T) {
	reg := &Registry{codecs: make(map[string]Codec)}
	reg.Register("zlib", newZlibCodec())
	reg.Register("broken", nil)

	_, ok := reg.Lookup("broken")
	require.False(t, ok)
	_, ok = reg.Lookup("zlib")
	require.True(t, ok)
}
