package store

import "github.com/arloliu/goslob/structcodec"

// Item is the decoded form of a Store entry's metadata prefix: the
// per-item content-type ids and the still-compressed payload bytes.
// Decompression is deferred until Store.Get actually needs the blob
// bodies.
type Item struct {
	ContentTypeIDs []uint8
	CompressedBody []byte
}

// decodeItem reads one Store entry: [count: u32][ctype_ids: count×u8]
// [compressed_len: u32][compressed: bytes]. The count field stays u32
// even though a bin's cardinality is capped at u16, preserving the
// on-disk width rather than narrowing it.
func decodeItem(r *structcodec.Reader) (Item, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return Item{}, err
	}

	ids := make([]uint8, count)
	for i := range ids {
		b, err := r.ReadByte()
		if err != nil {
			return Item{}, err
		}
		ids[i] = b
	}

	clen, err := r.ReadUint32()
	if err != nil {
		return Item{}, err
	}
	body, err := r.ReadBytes(int(clen))
	if err != nil {
		return Item{}, err
	}

	return Item{ContentTypeIDs: ids, CompressedBody: body}, nil
}
