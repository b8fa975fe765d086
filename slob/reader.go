package slob

import (
	"encoding/hex"
	"fmt"

	"github.com/arloliu/goslob/collation"
	"github.com/arloliu/goslob/compression"
	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/format"
	"github.com/arloliu/goslob/header"
	"github.com/arloliu/goslob/multispan"
	"github.com/arloliu/goslob/refs"
	"github.com/arloliu/goslob/store"
)

// Reader binds a parsed Header to a RefList and a Store, exposing the
// by-index, by-id, and collation lookup surfaces.
//
// It owns two independent MultiFileSpan handles over the same filenames,
// one for the RefList cursor and one for the Store cursor, so ref scans and
// bin decompression never contend on a single shared cursor.
type Reader struct {
	header  *header.Header
	refSpan *multispan.Span
	binSpan *multispan.Span
	refs    *refs.RefList
	store   *store.Store
	closed  bool
}

// Open opens filenames as one logical container (see FindParts to
// discover a multi-file split) and parses its header, ref list, and
// store.
func Open(filenames ...string) (*Reader, error) {
	refSpan, err := multispan.Open(filenames...)
	if err != nil {
		return nil, err
	}
	binSpan, err := multispan.Open(filenames...)
	if err != nil {
		refSpan.Close()
		return nil, err
	}

	h, err := header.ReadFrom(refSpan)
	if err != nil {
		refSpan.Close()
		binSpan.Close()
		return nil, err
	}
	if h.FileSize != uint64(refSpan.Size()) {
		refSpan.Close()
		binSpan.Close()
		return nil, errs.ErrIncorrectFileSize
	}

	registry := compression.NewRegistry()
	codec, ok := registry.Lookup(h.Compression)
	if !ok {
		refSpan.Close()
		binSpan.Close()
		return nil, errs.ErrUnknownCompression
	}

	rl, err := refs.NewRefList(refSpan, h.RefsOffset, h.Encoding)
	if err != nil {
		refSpan.Close()
		binSpan.Close()
		return nil, err
	}

	storeOffset := int64(h.StoreOffset)
	st, err := store.NewStore(binSpan, storeOffset, codec, h.ContentTypes)
	if err != nil {
		refSpan.Close()
		binSpan.Close()
		return nil, err
	}

	return &Reader{header: h, refSpan: refSpan, binSpan: binSpan, refs: rl, store: st}, nil
}

// Len returns the number of refs in the persisted ref table. This can
// differ from BlobCount: one blob may be stored under several keys, and
// resolved aliases add refs without adding blobs.
func (r *Reader) Len() int { return r.refs.Len() }

// ID returns the file's UUID in hex form.
func (r *Reader) ID() string { return hex.EncodeToString(r.header.UUID[:]) }

// Tags returns the header's tags as a name->value map.
func (r *Reader) Tags() map[string]string { return r.header.TagMap() }

// ContentTypes returns the header's content-type table, in assigned-id
// order.
func (r *Reader) ContentTypes() []string { return r.header.ContentTypes }

// BlobCount returns the header's declared blob_count.
func (r *Reader) BlobCount() uint32 { return r.header.BlobCount }

// Encoding returns the header's declared text encoding name.
func (r *Reader) Encoding() string { return r.header.Encoding }

// Compression returns the header's declared compression name.
func (r *Reader) Compression() string { return r.header.Compression }

// Get returns the i-th Blob in physical (sorted) ref order.
func (r *Reader) Get(i int) (*Blob, error) {
	ref, err := r.refs.Get(i)
	if err != nil {
		return nil, err
	}
	return r.blobFor(ref), nil
}

// Iterate calls fn for every Blob in physical ref order, stopping early if
// fn returns false or an error.
func (r *Reader) Iterate(fn func(*Blob) (bool, error)) error {
	for i := 0; i < r.refs.Len(); i++ {
		ref, err := r.refs.Get(i)
		if err != nil {
			return err
		}
		cont, err := fn(r.blobFor(ref))
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// GetByBlobID returns the Blob addressed by id directly, without a ref
// lookup: it decomposes id into (bin_index, item_index) and fetches the
// content straight from the Store.
func (r *Reader) GetByBlobID(id format.ContentID) (*Blob, error) {
	binIndex, itemIndex := id.Split()
	return &Blob{
		id:    id,
		store: r.store,
		bin:   binIndex,
		item:  itemIndex,
	}, nil
}

func (r *Reader) blobFor(ref refs.Ref) *Blob {
	return &Blob{
		id:       format.MeldContentID(ref.BinIndex, ref.ItemIndex),
		key:      ref.Key,
		fragment: ref.Fragment,
		store:    r.store,
		bin:      ref.BinIndex,
		item:     ref.ItemIndex,
	}
}

// AsDict returns a collation dictionary over the ref table at the given
// strength and optional sort-key truncation.
func (r *Reader) AsDict(strength collation.Strength, maxLength int) *refs.KeyedDict {
	return r.refs.AsDict(strength, maxLength)
}

// blobRefContent fetches the raw content addressed by ref directly from
// the Store, used internally while walking alias chains where only a
// *refs.Ref is in hand (not yet wrapped as a Blob).
func (r *Reader) blobRefContent(ref refs.Ref) ([]byte, error) {
	_, content, err := r.store.Get(int(ref.BinIndex), int(ref.ItemIndex))
	return content, err
}

// Close releases both underlying file spans. It is safe to call more than
// once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err1 := r.refSpan.Close()
	err2 := r.binSpan.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Blob is the reader-side synthesis of a Ref plus its Store-backed
// content. Content and content type are fetched lazily and memoized on
// first access.
type Blob struct {
	id       format.ContentID
	key      string
	fragment string

	store *store.Store
	bin   uint32
	item  uint16

	fetched     bool
	contentType string
	content     []byte
	fetchErr    error
}

// ID returns the blob's 48-bit content id.
func (b *Blob) ID() format.ContentID { return b.id }

// Key returns the ref's key, or "" if this Blob was constructed through
// GetByBlobID, which has no associated key.
func (b *Blob) Key() string { return b.key }

// Fragment returns the ref's fragment, if any.
func (b *Blob) Fragment() string { return b.fragment }

func (b *Blob) fetch() error {
	if b.fetched {
		return b.fetchErr
	}
	ct, content, err := b.store.Get(int(b.bin), int(b.item))
	b.contentType, b.content, b.fetchErr = ct, content, err
	b.fetched = true
	return err
}

// ContentType lazily fetches and memoizes the blob's content type.
func (b *Blob) ContentType() (string, error) {
	if err := b.fetch(); err != nil {
		return "", err
	}
	return b.contentType, nil
}

// Content lazily fetches and memoizes the blob's raw bytes.
func (b *Blob) Content() ([]byte, error) {
	if err := b.fetch(); err != nil {
		return nil, err
	}
	return b.content, nil
}

// String implements fmt.Stringer for debugging/log output.
func (b *Blob) String() string {
	return fmt.Sprintf("Blob{id=%d, key=%q, fragment=%q}", b.id, b.key, b.fragment)
}
