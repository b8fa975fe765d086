package refs

import (
	"bytes"
	"testing"

	"github.com/arloliu/goslob/collation"
	"github.com/arloliu/goslob/structcodec"
	"github.com/stretchr/testify/require"
)

// buildRefStream encodes refs back to back and returns the byte stream
// plus a u64 position table pointing at each, matching the layout
// RefList expects: [u32 count][positions][ref bodies].
func buildRefStream(t *testing.T, refs []Ref) []byte {
	t.Helper()

	var bodies bytes.Buffer
	positions := make([]uint64, len(refs))
	for i, ref := range refs {
		positions[i] = uint64(bodies.Len())
		w := structcodec.NewWriter(&bodies, nil)
		require.NoError(t, encodeRef(w, ref))
	}

	var out bytes.Buffer
	hw := structcodec.NewWriter(&out, nil)
	require.NoError(t, hw.WriteUint32(uint32(len(refs))))
	for _, p := range positions {
		require.NoError(t, hw.WriteUint64(p))
	}
	out.Write(bodies.Bytes())

	return out.Bytes()
}

type memSrc struct{ *bytes.Reader }

func TestRefListGetAndCache(t *testing.T) {
	refs := []Ref{
		{Key: "alpha", BinIndex: 0, ItemIndex: 0, Fragment: ""},
		{Key: "beta", BinIndex: 0, ItemIndex: 1, Fragment: "frag"},
	}
	data := buildRefStream(t, refs)

	rl, err := NewRefList(&memSrc{bytes.NewReader(data)}, 0, "utf-8")
	require.NoError(t, err)
	require.Equal(t, 2, rl.Len())

	got0, err := rl.Get(0)
	require.NoError(t, err)
	require.Equal(t, refs[0], got0)

	got1, err := rl.Get(1)
	require.NoError(t, err)
	require.Equal(t, refs[1], got1)

	// Second fetch should hit the cache and return the same value.
	cached0, err := rl.Get(0)
	require.NoError(t, err)
	require.Equal(t, got0, cached0)
}

func TestKeyedDictExactAndHomographs(t *testing.T) {
	refs := []Ref{
		{Key: "ABC", BinIndex: 0, ItemIndex: 0},
		{Key: "abc", BinIndex: 0, ItemIndex: 1},
		{Key: "ábc", BinIndex: 0, ItemIndex: 2},
		{Key: "zzz", BinIndex: 0, ItemIndex: 3},
	}
	// Sort refs by IDENTICAL strength, as the writer would.
	seq := SliceSequence(sortedByIdentical(refs))

	tertiary := NewKeyedDict(seq, collation.Tertiary, 0)
	matches, err := tertiary.Lookup("abc")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "abc", matches[0].Key)

	primary := NewKeyedDict(seq, collation.Primary, 0)
	matches, err = primary.Lookup("abc")
	require.NoError(t, err)
	require.Len(t, matches, 3)
}

func sortedByIdentical(refs []Ref) []Ref {
	out := make([]Ref, len(refs))
	copy(out, refs)
	coll := collation.Get(collation.Identical, 0)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && string(coll.SortKey(out[j-1].Key)) > string(coll.SortKey(out[j].Key)); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
