package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// zlibCodec wraps klauspost/compress's zlib implementation at the
// strongest compression level, matching the Python reference's
// zlib.compress(x, 9).
type zlibCodec struct{}

func newZlibCodec() Codec {
	return zlibCodec{}
}

func (zlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
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

func (zlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
