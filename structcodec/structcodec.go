// Package structcodec implements the fixed big-endian primitive codec used
// throughout the SLOB container: u8/u16/u32/u64 integers and the two
// length-prefixed text encodings (tiny_text with a 1-byte length, text with
// a 2-byte length).
//
// There is no runtime byte-order selection here: big-endian is the only
// option, since the container format is always big-endian on disk.
package structcodec

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/format"
)

// Reader reads big-endian primitives and length-prefixed text from an
// underlying io.Reader, decoding text with a caller-supplied encoding.
type Reader struct {
	r   io.Reader
	dec TextDecoder
}

// TextDecoder converts the raw encoded bytes of a key, fragment, tag, or
// content type into a Go string. Reader callers pass in whatever decoder
// matches the header's declared encoding (resolved by the
// internal/textenc package).
type TextDecoder func([]byte) (string, error)

// NewReader builds a Reader over r. dec may be nil, in which case bytes are
// decoded as UTF-8 via a direct string conversion.
func NewReader(r io.Reader, dec TextDecoder) *Reader {
	if dec == nil {
		dec = func(b []byte) (string, error) { return string(b), nil }
	}
	return &Reader{r: r, dec: dec}
}

func (r *Reader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadByte reads a single u8.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a big-endian u16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 reads a big-endian u32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadUint64 reads a big-endian u64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.readN(n)
}

// readLenPrefixed reads a length-prefixed byte string, where lenSize is 1
// or 2. If the declared length equals the maximum representable value for
// lenSize, any bytes after the first NUL are stripped, restoring the
// logical value of a tag written with editable padding.
func (r *Reader) readLenPrefixed(lenSize int) ([]byte, error) {
	var length int
	var maxLen int
	switch lenSize {
	case 1:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		length = int(b)
		maxLen = format.MaxTinyTextLen
	case 2:
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		length = int(v)
		maxLen = format.MaxTextLen
	default:
		panic("structcodec: invalid lenSize")
	}

	raw, err := r.readN(length)
	if err != nil {
		return nil, err
	}
	if length == maxLen {
		if i := indexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
	}
	return raw, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// ReadTinyText reads a tiny_text field (u8 length prefix) and decodes it.
func (r *Reader) ReadTinyText() (string, error) {
	raw, err := r.readLenPrefixed(1)
	if err != nil {
		return "", err
	}
	return r.dec(raw)
}

// ReadText reads a text field (u16 length prefix) and decodes it.
func (r *Reader) ReadText() (string, error) {
	raw, err := r.readLenPrefixed(2)
	if err != nil {
		return "", err
	}
	return r.dec(raw)
}

// ReadTinyTextUTF8 reads a tiny_text field and decodes it strictly as
// UTF-8, bypassing the configured TextDecoder. Used for the encoding and
// compression name fields, which are always UTF-8 regardless of the
// header's declared encoding.
func (r *Reader) ReadTinyTextUTF8() (string, error) {
	raw, err := r.readLenPrefixed(1)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Writer writes big-endian primitives and length-prefixed text to an
// underlying io.Writer, encoding text with a caller-supplied encoder.
type Writer struct {
	w   io.Writer
	enc TextEncoder
}

// TextEncoder converts a Go string into the raw bytes that will be stored
// for a key, fragment, tag, or content type.
type TextEncoder func(string) ([]byte, error)

// NewWriter builds a Writer over w. enc may be nil, in which case strings
// are encoded as UTF-8 via a direct byte conversion.
func NewWriter(w io.Writer, enc TextEncoder) *Writer {
	if enc == nil {
		enc = func(s string) ([]byte, error) { return []byte(s), nil }
	}
	return &Writer{w: w, enc: enc}
}

// WriteByte writes a single u8.
func (w *Writer) WriteByte(v byte) error {
	_, err := w.w.Write([]byte{v})
	return err
}

// WriteUint16 writes a big-endian u16.
func (w *Writer) WriteUint16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.w.Write(b[:])
	return err
}

// WriteUint32 writes a big-endian u32.
func (w *Writer) WriteUint32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.w.Write(b[:])
	return err
}

// WriteUint64 writes a big-endian u64.
func (w *Writer) WriteUint64(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := w.w.Write(b[:])
	return err
}

// WriteBytes writes raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

func (w *Writer) writeLenPrefixed(raw []byte, lenSize int, padToLength int) error {
	maxLen := format.MaxTinyTextLen
	if lenSize == 2 {
		maxLen = format.MaxTextLen
	}
	if len(raw) > maxLen {
		return errs.ErrKeyTooLong
	}

	declared := len(raw)
	if padToLength > 0 {
		declared = padToLength
	}

	switch lenSize {
	case 1:
		if err := w.WriteByte(byte(declared)); err != nil {
			return err
		}
	case 2:
		if err := w.WriteUint16(uint16(declared)); err != nil {
			return err
		}
	default:
		panic("structcodec: invalid lenSize")
	}

	if err := w.WriteBytes(raw); err != nil {
		return err
	}
	if padToLength > 0 {
		pad := make([]byte, padToLength-len(raw))
		return w.WriteBytes(pad)
	}
	return nil
}

// WriteTinyText writes a tiny_text field. If editable is true the value is
// padded to 255 bytes with NULs so it can be rewritten in place later (see
// header.SetTagValue).
func (w *Writer) WriteTinyText(s string, editable bool) error {
	raw, err := w.enc(s)
	if err != nil {
		return err
	}
	pad := 0
	if editable {
		pad = format.MaxTinyTextLen
	}
	return w.writeLenPrefixed(raw, 1, pad)
}

// WriteTinyTextUTF8 writes a tiny_text field encoded strictly as UTF-8,
// bypassing the configured TextEncoder. Used for the encoding and
// compression name fields.
func (w *Writer) WriteTinyTextUTF8(s string) error {
	return w.writeLenPrefixed([]byte(s), 1, 0)
}

// WriteText writes a text field (u16 length prefix).
func (w *Writer) WriteText(s string) error {
	raw, err := w.enc(s)
	if err != nil {
		return err
	}
	return w.writeLenPrefixed(raw, 2, 0)
}
