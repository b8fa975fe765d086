package compression

// identityCodec is the no-op compression scheme stored under the empty
// name; it exists so bins can be written uncompressed (used by the
// writer's nested alias sub-writer, which disables compression).
type identityCodec struct{}

func (identityCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (identityCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
