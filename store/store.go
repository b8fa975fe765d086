package store

import (
	"io"

	"github.com/arloliu/goslob/compression"
	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/itemlist"
	"github.com/arloliu/goslob/structcodec"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ItemCacheSize and BinCacheSize are the suggested LRU capacities: a
// small cache of decoded Item metadata, and a smaller cache of
// decompressed bin payloads (each payload can be large, so it gets a
// tighter bound than the metadata cache).
const (
	ItemCacheSize = 32
	BinCacheSize  = 16
)

// source is the minimal capability Store needs from its backing stream.
type source interface {
	io.Reader
	Seek(offset int64, whence int) (int64, error)
}

// Store is the specialization of itemlist.ItemList[Item] that indexes the
// file's bin table: count = u32, positions = u64.
//
// Unlike RefList, a Store item's own body doesn't carry the final blob;
// it carries a compressed bin payload shared by every item in that bin.
// Get therefore decompresses the bin (caching the result) before slicing
// out the requested item.
type Store struct {
	list   *itemlist.ItemList[Item]
	codec  compression.Codec
	ctypes []string

	itemCache *lru.Cache[int, Item]
	binCache  *lru.Cache[int, []byte]
}

// NewStore builds a Store over src starting at offset. codec is the single
// compression codec declared by the file's header (resolved from the
// registry by the caller), used to decompress every bin payload; ctypes is
// the file's content-type table that content_type_ids index into.
func NewStore(src source, offset int64, codec compression.Codec, ctypes []string) (*Store, error) {
	itemCache, err := lru.New[int, Item](ItemCacheSize)
	if err != nil {
		return nil, err
	}
	binCache, err := lru.New[int, []byte](BinCacheSize)
	if err != nil {
		return nil, err
	}

	decode := func(r *structcodec.Reader) (Item, error) { return decodeItem(r) }
	list, err := itemlist.NewWithCountPrefix[Item](src, offset, itemlist.Pos64, decode, nil)
	if err != nil {
		return nil, err
	}

	return &Store{
		list:      list,
		codec:     codec,
		ctypes:    ctypes,
		itemCache: itemCache,
		binCache:  binCache,
	}, nil
}

// Len returns the number of bins in the store.
func (s *Store) Len() int { return s.list.Len() }

func (s *Store) item(binIndex int) (Item, error) {
	if it, ok := s.itemCache.Get(binIndex); ok {
		return it, nil
	}
	it, err := s.list.Get(binIndex)
	if err != nil {
		return Item{}, err
	}
	s.itemCache.Add(binIndex, it)
	return it, nil
}

// ContentType returns the content type string of the given item within a
// bin, without decompressing the bin payload (a metadata-only peek).
func (s *Store) ContentType(binIndex, itemIndex int) (string, error) {
	it, err := s.item(binIndex)
	if err != nil {
		return "", err
	}
	if itemIndex < 0 || itemIndex >= len(it.ContentTypeIDs) {
		return "", errs.ErrIndexOutOfRange
	}
	id := int(it.ContentTypeIDs[itemIndex])
	if id < 0 || id >= len(s.ctypes) {
		return "", errs.ErrUnknownContentType
	}
	return s.ctypes[id], nil
}

func (s *Store) decompressedBin(binIndex int) ([]byte, error) {
	if payload, ok := s.binCache.Get(binIndex); ok {
		return payload, nil
	}

	it, err := s.item(binIndex)
	if err != nil {
		return nil, err
	}

	payload, err := s.codec.Decompress(it.CompressedBody)
	if err != nil {
		return nil, err
	}
	s.binCache.Add(binIndex, payload)
	return payload, nil
}

// Get returns the content type and raw blob bytes of item_index within
// bin_index, decompressing and caching the bin payload as needed.
func (s *Store) Get(binIndex, itemIndex int) (string, []byte, error) {
	ctype, err := s.ContentType(binIndex, itemIndex)
	if err != nil {
		return "", nil, err
	}

	payload, err := s.decompressedBin(binIndex)
	if err != nil {
		return "", nil, err
	}

	it, err := s.item(binIndex)
	if err != nil {
		return "", nil, err
	}

	bin, err := NewBin(payload, len(it.ContentTypeIDs))
	if err != nil {
		return "", nil, err
	}
	blob, err := bin.Get(itemIndex)
	if err != nil {
		return "", nil, err
	}
	return ctype, blob, nil
}
