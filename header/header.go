// Package header parses and serializes the SLOB file prelude (magic,
// UUID, encoding, compression, tags, content types, blob count, store
// offset, file size) and the in-place tag rewrite it supports.
package header

import (
	"io"
	"os"

	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/format"
	"github.com/arloliu/goslob/internal/textenc"
	"github.com/arloliu/goslob/structcodec"
)

// Tag is a single key/value header tag, kept in file order.
type Tag struct {
	Name  string
	Value string
}

// Header is the parsed fixed prelude of a SLOB file.
type Header struct {
	UUID        [format.UUIDSize]byte
	Encoding    string
	Compression string
	Tags        []Tag
	ContentTypes []string
	BlobCount   uint32
	StoreOffset uint64
	FileSize    uint64

	// RefsOffset is the absolute byte offset immediately following the
	// header, where the ref_count field begins.
	RefsOffset int64
}

// TagValue returns the value of the named tag and whether it was present.
func (h *Header) TagValue(name string) (string, bool) {
	for _, t := range h.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// TagMap returns the header's tags as a name->value map, for callers that
// don't need insertion order.
func (h *Header) TagMap() map[string]string {
	m := make(map[string]string, len(h.Tags))
	for _, t := range h.Tags {
		m[t.Name] = t.Value
	}
	return m
}

// Read parses a Header from the start of r. r must support reading from
// offset 0 through the end of the header; callers typically pass a
// multispan.Span that has been rewound with Seek(0, io.SeekStart).
//
// On any error (including errs.ErrUnknownFileFormat and
// errs.ErrUnknownEncoding) Read returns a nil Header; it is the caller's
// responsibility to close any underlying handles. The compression name is
// recorded but not checked here; slob.Open reports an unregistered one as
// errs.ErrUnknownCompression.
func Read(r io.Reader) (*Header, int64, error) {
	magic := make([]byte, len(format.Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, 0, err
	}
	for i, b := range format.Magic {
		if magic[i] != b {
			return nil, 0, errs.ErrUnknownFileFormat
		}
	}

	h := &Header{}
	if _, err := io.ReadFull(r, h.UUID[:]); err != nil {
		return nil, 0, err
	}

	raw := structcodec.NewReader(r, nil)
	encodingName, err := raw.ReadTinyTextUTF8()
	if err != nil {
		return nil, 0, err
	}
	if _, ok := textenc.Lookup(encodingName); !ok {
		return nil, 0, errs.ErrUnknownEncoding
	}
	h.Encoding = encodingName

	compressionName, err := raw.ReadTinyTextUTF8()
	if err != nil {
		return nil, 0, err
	}
	h.Compression = compressionName

	codec, _ := textenc.Lookup(h.Encoding)
	tr := structcodec.NewReader(r, func(b []byte) (string, error) { return codec.Decode(b) })

	tagCount, err := tr.ReadByte()
	if err != nil {
		return nil, 0, err
	}
	h.Tags = make([]Tag, 0, tagCount)
	for i := 0; i < int(tagCount); i++ {
		name, err := tr.ReadTinyText()
		if err != nil {
			return nil, 0, err
		}
		value, err := tr.ReadTinyText()
		if err != nil {
			return nil, 0, err
		}
		h.Tags = append(h.Tags, Tag{Name: name, Value: value})
	}

	ctCount, err := tr.ReadByte()
	if err != nil {
		return nil, 0, err
	}
	h.ContentTypes = make([]string, 0, ctCount)
	for i := 0; i < int(ctCount); i++ {
		ct, err := tr.ReadText()
		if err != nil {
			return nil, 0, err
		}
		h.ContentTypes = append(h.ContentTypes, ct)
	}

	h.BlobCount, err = tr.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	h.StoreOffset, err = tr.ReadUint64()
	if err != nil {
		return nil, 0, err
	}
	h.FileSize, err = tr.ReadUint64()
	if err != nil {
		return nil, 0, err
	}

	return h, 0, nil
}

// Tell is implemented by readers that can report the current stream
// offset, so Read's caller can record RefsOffset without this package
// needing to know about multispan.Span directly.
type Tell interface {
	Tell() int64
}

// ReadFrom parses a Header starting at offset 0 of r and records the
// absolute offset where the header ends (RefsOffset) using r's Tell
// method.
func ReadFrom(r interface {
	io.Reader
	Tell
}) (*Header, error) {
	h, _, err := Read(r)
	if err != nil {
		return h, err
	}
	h.RefsOffset = r.Tell()
	return h, nil
}

// SetTagValue opens filename for read/write, locates the tag named name
// in its header, and rewrites its padded value in place. It returns
// errs.ErrTagNotFound if no tag with that name exists, or
// errs.ErrUnknownEncoding if the header's encoding can't be resolved.
//
// This is the only mutation the SLOB format supports: tag values are
// always written with editable padding (255 bytes), so rewriting a
// shorter value in place never changes the file's length.
func SetTagValue(filename, name, value string) error {
	f, err := os.OpenFile(filename, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(int64(len(format.Magic)+format.UUIDSize), io.SeekStart); err != nil {
		return err
	}

	raw := structcodec.NewReader(f, nil)
	encodingName, err := raw.ReadTinyTextUTF8()
	if err != nil {
		return err
	}
	codec, ok := textenc.Lookup(encodingName)
	if !ok {
		return errs.ErrUnknownEncoding
	}

	tr := structcodec.NewReader(f, func(b []byte) (string, error) { return codec.Decode(b) })
	if _, err := tr.ReadTinyText(); err != nil { // compression name, unused here
		return err
	}

	tagCount, err := tr.ReadByte()
	if err != nil {
		return err
	}

	for i := 0; i < int(tagCount); i++ {
		key, err := tr.ReadTinyText()
		if err != nil {
			return err
		}
		if key == name {
			tw := structcodec.NewWriter(f, func(s string) ([]byte, error) { return codec.Encode(s) })
			return tw.WriteTinyText(value, true)
		}
		if _, err := tr.ReadTinyText(); err != nil { // skip value
			return err
		}
	}

	return errs.ErrTagNotFound
}
