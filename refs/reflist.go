package refs

import (
	"io"

	"github.com/arloliu/goslob/collation"
	"github.com/arloliu/goslob/internal/textenc"
	"github.com/arloliu/goslob/itemlist"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RefListCacheSize is the suggested LRU capacity for recently fetched refs.
const RefListCacheSize = 512

// source is the minimal capability RefList needs from its backing stream:
// seekable, readable, matching itemlist.rawSource without re-exporting an
// unexported type.
type source interface {
	io.Reader
	Seek(offset int64, whence int) (int64, error)
}

// RefList is the specialization of itemlist.ItemList[Ref] used for the
// file's ref table: count = u32, positions = u64, cached with a bounded
// LRU.
type RefList struct {
	list  *itemlist.ItemList[Ref]
	cache *lru.Cache[int, Ref]
}

// NewRefList builds a RefList over src starting at offset, decoding keys
// and fragments with the given text encoding.
func NewRefList(src source, offset int64, encodingName string) (*RefList, error) {
	return newRefList(src, offset, encodingName, -1)
}

// NewRefListWithCount builds a RefList whose count is already known
// (used while the writer is still appending to its temp streams, where
// the in-progress ref_count hasn't been persisted as a prefix yet).
func NewRefListWithCount(src source, offset int64, encodingName string, count int) (*RefList, error) {
	return newRefList(src, offset, encodingName, count)
}

func newRefList(src source, offset int64, encodingName string, count int) (*RefList, error) {
	codec, ok := textenc.Lookup(encodingName)
	if !ok {
		codec = textenc.Codec{}
	}
	textDecode := func(b []byte) (string, error) { return codec.Decode(b) }

	cache, err := lru.New[int, Ref](RefListCacheSize)
	if err != nil {
		return nil, err
	}

	rl := &RefList{cache: cache}

	if count >= 0 {
		l, err := itemlist.New[Ref](src, offset, count, itemlist.Pos64, decodeRef, textDecode)
		if err != nil {
			return nil, err
		}
		rl.list = l
	} else {
		l, err := itemlist.NewWithCountPrefix[Ref](src, offset, itemlist.Pos64, decodeRef, textDecode)
		if err != nil {
			return nil, err
		}
		rl.list = l
	}

	return rl, nil
}

// Len returns the number of refs.
func (rl *RefList) Len() int { return rl.list.Len() }

// Get returns the i-th ref in physical (on-disk) order, consulting the LRU
// cache before falling back to a disk read.
func (rl *RefList) Get(i int) (Ref, error) {
	if ref, ok := rl.cache.Get(i); ok {
		return ref, nil
	}
	ref, err := rl.list.Get(i)
	if err != nil {
		return ref, err
	}
	rl.cache.Add(i, ref)
	return ref, nil
}

// Pos exposes the underlying position-table lookup, used by the writer's
// sort pass to read back the raw byte offset of the i-th ref without
// paying for a full decode.
func (rl *RefList) Pos(i int) (uint64, error) {
	return rl.list.Pos(i)
}

// AsDict returns a collation dictionary over this RefList at the given
// strength and optional max sort-key length.
func (rl *RefList) AsDict(strength collation.Strength, maxLength int) *KeyedDict {
	return NewKeyedDict(rl, strength, maxLength)
}
