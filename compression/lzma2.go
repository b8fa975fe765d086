package compression

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// lzma2Codec wraps ulikunitz/xz's raw (headerless) LZMA2 filter stream,
// matching the Python reference's
// lzma.compress(s, format=FORMAT_RAW, filters=[{'id': FILTER_LZMA2}]).
// This is SLOB's default compression.
type lzma2Codec struct{}

func newLZMA2Codec() Codec {
	return lzma2Codec{}
}

func (lzma2Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter2(&buf)
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

func (lzma2Codec) Decompress(data []byte) ([]byte, error) {
	r, err := lzma.NewReader2(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
