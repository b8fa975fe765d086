package compression

import (
	"bytes"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// bzip2Codec wraps dsnet/compress's bzip2 implementation at the strongest
// compression level (9 == BestCompression), matching the Python
// reference's bz2.compress(x, 9). The standard library's compress/bzip2
// only implements a decompressor, so it can't cover writing; dsnet/compress
// is the only full bzip2 read+write implementation available
// (other_examples/87d49f0b_dsnet-compress__bzip2-writer.go.go).
type bzip2Codec struct{}

func newBzip2Codec() Codec {
	return bzip2Codec{}
}

func (bzip2Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (bzip2Codec) Decompress(data []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
