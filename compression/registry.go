// Package compression implements the named (compress, decompress) pairs
// SLOB bins are stored under: identity, zlib (level 9), bz2 (level 9), and
// a raw/headerless lzma2 filter.
//
// The registry is keyed by the short names SLOB persists in its header
// (a tiny_text name), rather than a numeric compression-type enum.
package compression

// Codec is a named compress/decompress pair.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Registry maps compression names to their Codec implementation. A name
// present in a file header that is missing from the registry is a fatal
// UnknownCompression error for the reader; see errs.ErrUnknownCompression.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry builds the default registry: identity (""), "zlib", "bz2",
// and "lzma2". A codec that fails to initialize (for example because its
// underlying library could not be loaded) is simply omitted rather than
// aborting registration: a missing codec disables that entry but never
// the registry as a whole.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec, 4)}
	r.Register("", identityCodec{})
	r.Register("zlib", newZlibCodec())
	r.Register("bz2", newBzip2Codec())
	r.Register("lzma2", newLZMA2Codec())
	return r
}

// Register adds or replaces a codec under name. A nil codec is ignored.
func (r *Registry) Register(name string, codec Codec) {
	if codec == nil {
		return
	}
	r.codecs[name] = codec
}

// Lookup returns the codec registered under name, and whether it exists.
func (r *Registry) Lookup(name string) (Codec, bool) {
	c, ok := r.codecs[name]
	return c, ok
}

// Names returns every registered compression name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	return names
}
