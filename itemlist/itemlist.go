// Package itemlist implements a generic positional index: a count, an
// array of fixed-width positions, and a caller-supplied item decoder
// invoked at data_offset + pos(i).
//
// RefList, Bin, and Store are all specializations of the same ItemList[T].
package itemlist

import (
	"io"
	"sync"

	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/structcodec"
)

// PosWidth selects the on-disk width of the position table: 4 bytes (u32,
// used by the in-memory Bin index) or 8 bytes (u64, used by RefList and
// Store, which index into a potentially large file).
type PosWidth int

const (
	Pos32 PosWidth = 4
	Pos64 PosWidth = 8
)

// Seeker is the minimal reader capability ItemList needs: seek to an
// absolute offset and read from there. multispan.Span and *os.File both
// satisfy a superset of this.
type Seeker interface {
	Seek(offset int64, whence int) (int64, error)
}

// Decoder decodes a single item, given a structcodec.Reader already
// positioned at the item's data offset.
type Decoder[T any] func(r *structcodec.Reader) (T, error)

// ItemList is a generic positional index over a backing stream. Random
// access is O(1) plus decode cost: Get seeks to the i-th position's
// recorded offset and invokes the decoder.
//
// All access is serialized through a mutex, because every ItemList shares
// one underlying reader/cursor; concurrent callers must not interleave
// seeks.
type ItemList[T any] struct {
	mu       sync.Mutex
	seeker   Seeker
	reader   *structcodec.Reader
	posWidth PosWidth
	decode   Decoder[T]

	count      int
	posOffset  int64
	dataOffset int64
}

// rawSource bundles the io.Reader structcodec needs with the Seeker this
// package needs, since Go has no single stdlib interface for "seekable
// reader" with exactly these two methods plus nothing else assumed.
type rawSource interface {
	Seeker
	Read(p []byte) (int, error)
}

// New builds an ItemList starting at offset in src. count is the number of
// items, already known (used by Bin, whose count was read from the Store
// entry's own fixed prefix). Use NewWithCountPrefix when the count must be
// read as a u32 at offset. textDecode, if non-nil, is used to decode any
// tiny_text/text fields the item decoder reads (it configures the
// ItemList's internal structcodec.Reader); pass nil for binary-only items
// such as Bin, whose bodies are raw length-prefixed bytes.
func New[T any](src rawSource, offset int64, count int, posWidth PosWidth, decode Decoder[T], textDecode structcodec.TextDecoder) (*ItemList[T], error) {
	l := &ItemList[T]{
		seeker:   src,
		reader:   structcodec.NewReader(src, textDecode),
		posWidth: posWidth,
		decode:   decode,
		count:    count,
	}
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	l.posOffset = offset
	l.dataOffset = l.posOffset + int64(posWidth)*int64(count)
	return l, nil
}

// NewWithCountPrefix builds an ItemList whose count is stored as a u32 at
// the start of offset (used by RefList and Store). See New for
// textDecode's meaning.
func NewWithCountPrefix[T any](src rawSource, offset int64, posWidth PosWidth, decode Decoder[T], textDecode structcodec.TextDecoder) (*ItemList[T], error) {
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	r := structcodec.NewReader(src, nil)
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	l := &ItemList[T]{
		seeker:   src,
		reader:   structcodec.NewReader(src, textDecode),
		posWidth: posWidth,
		decode:   decode,
		count:    int(count),
	}
	l.posOffset = offset + 4
	l.dataOffset = l.posOffset + int64(posWidth)*int64(l.count)
	return l, nil
}

// SetDecoder rebinds the item decoder, used when the decoder needs to
// capture per-call state (e.g. RefList's text decoder, which depends on
// the header's declared encoding).
func (l *ItemList[T]) SetDecoder(decode Decoder[T]) { l.decode = decode }

// Len returns the number of items in the list.
func (l *ItemList[T]) Len() int { return l.count }

// Pos reads the i-th position from the position table.
func (l *ItemList[T]) Pos(i int) (uint64, error) {
	if i < 0 || i >= l.count {
		return 0, errs.ErrIndexOutOfRange
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.seeker.Seek(l.posOffset+int64(l.posWidth)*int64(i), io.SeekStart); err != nil {
		return 0, err
	}
	if l.posWidth == Pos32 {
		v, err := l.reader.ReadUint32()
		return uint64(v), err
	}
	return l.reader.ReadUint64()
}

// ReadAt seeks to dataOffset+pos and decodes one item there.
func (l *ItemList[T]) ReadAt(pos uint64) (T, error) {
	var zero T

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.seeker.Seek(l.dataOffset+int64(pos), io.SeekStart); err != nil {
		return zero, err
	}
	return l.decode(l.reader)
}

// Get returns the i-th item, combining Pos and ReadAt.
func (l *ItemList[T]) Get(i int) (T, error) {
	var zero T
	pos, err := l.Pos(i)
	if err != nil {
		return zero, err
	}
	return l.ReadAt(pos)
}

// DataOffset returns the absolute offset where item bodies begin.
func (l *ItemList[T]) DataOffset() int64 { return l.dataOffset }
