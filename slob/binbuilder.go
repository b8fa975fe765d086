package slob

import (
	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/format"
	"github.com/arloliu/goslob/internal/pool"
	"github.com/arloliu/goslob/structcodec"
)

// binItem is one pending (content_type_id, blob) pair held by a BinBuilder
// before it is flushed.
type binItem struct {
	ctypeID uint8
	blob    []byte
}

// BinBuilder accumulates blobs into a single bin until the Writer decides
// to roll it over, then emits the compressed Store entry bytes.
type BinBuilder struct {
	items []binItem
	size  int64 // uncompressed size added so far (item dir + bodies)
}

// NewBinBuilder returns an empty BinBuilder.
func NewBinBuilder() *BinBuilder {
	return &BinBuilder{}
}

// Len returns the number of items accumulated so far.
func (b *BinBuilder) Len() int { return len(b.items) }

// Size returns the uncompressed byte size the bin would have if flushed
// right now: item directory (4 bytes/item) plus every blob body (4-byte
// length prefix each).
func (b *BinBuilder) Size() int64 { return b.size }

// Add appends (ctypeID, blob) to the bin, returning the item's index
// within the bin. blob must not exceed format.MaxBlobLen bytes; callers
// are expected to have already rejected oversized blobs via the Writer's
// own content_too_long check.
func (b *BinBuilder) Add(ctypeID uint8, blob []byte) (int, error) {
	if uint64(len(blob)) > format.MaxBlobLen {
		return 0, errs.ErrContentTooLong
	}
	idx := len(b.items)
	b.items = append(b.items, binItem{ctypeID: ctypeID, blob: blob})
	b.size += 4 + int64(len(blob)) + 4 // offset entry + length prefix + body
	return idx, nil
}

// Finalize writes the Store entry for the accumulated items using compress
// to compress the positional payload, then clears the builder so it can be
// reused for the next bin.
//
// The bodies/payload scratch buffers are borrowed from the blob-set pool
// (internal/pool) rather than allocated fresh: a bin can approach
// minBinSize (default 512KiB) and Finalize runs once per bin, so reusing
// the backing array across bins avoids a large allocation per rollover.
func (b *BinBuilder) Finalize(compress func([]byte) ([]byte, error)) ([]byte, error) {
	bodies := pool.GetBlobSetBuffer()
	defer pool.PutBlobSetBuffer(bodies)
	bw := structcodec.NewWriter(bodies, nil)

	offsets := make([]uint32, len(b.items))
	for i, it := range b.items {
		offsets[i] = uint32(bodies.Len())
		if err := bw.WriteUint32(uint32(len(it.blob))); err != nil {
			return nil, err
		}
		if err := bw.WriteBytes(it.blob); err != nil {
			return nil, err
		}
	}

	payload := pool.GetBlobSetBuffer()
	defer pool.PutBlobSetBuffer(payload)
	pw := structcodec.NewWriter(payload, nil)
	for _, off := range offsets {
		if err := pw.WriteUint32(off); err != nil {
			return nil, err
		}
	}
	payload.Write(bodies.Bytes())

	compressed, err := compress(payload.Bytes())
	if err != nil {
		return nil, err
	}

	entry := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(entry)
	ew := structcodec.NewWriter(entry, nil)
	if err := ew.WriteUint32(uint32(len(b.items))); err != nil {
		return nil, err
	}
	for _, it := range b.items {
		if err := ew.WriteByte(it.ctypeID); err != nil {
			return nil, err
		}
	}
	if err := ew.WriteUint32(uint32(len(compressed))); err != nil {
		return nil, err
	}
	if err := ew.WriteBytes(compressed); err != nil {
		return nil, err
	}

	out := make([]byte, entry.Len())
	copy(out, entry.Bytes())

	b.items = b.items[:0]
	b.size = 0

	return out, nil
}
