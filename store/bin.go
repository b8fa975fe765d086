// Package store implements bin-indexed lookup of content blobs, with
// per-bin decompression and two LRU layers (decoded Item metadata,
// and decompressed bin payloads).
package store

import (
	"github.com/arloliu/goslob/itemlist"
	"github.com/arloliu/goslob/structcodec"
)

// Bin is a transient ItemList over one already-decompressed bin payload:
// a positional array of u32 offsets followed by length-prefixed (u32)
// blob bodies.
type Bin struct {
	list *itemlist.ItemList[[]byte]
}

// newBytesSeeker (bytesseeker.go) adapts an in-memory byte slice to
// itemlist's rawSource requirement (Seek + Read) via bytes.Reader.

func decodeBinItem(r *structcodec.Reader) ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// NewBin builds a Bin over the decompressed payload of count items.
func NewBin(payload []byte, count int) (*Bin, error) {
	list, err := itemlist.New[[]byte](newBytesSeeker(payload), 0, count, itemlist.Pos32, decodeBinItem, nil)
	if err != nil {
		return nil, err
	}
	return &Bin{list: list}, nil
}

// Get returns the item-index'th blob body.
func (b *Bin) Get(itemIndex int) ([]byte, error) {
	return b.list.Get(itemIndex)
}
