// Package textenc resolves a header's declared encoding name (e.g.
// "utf-8", "iso-8859-1") into byte<->string codecs, the way Python's
// `encodings.search_function` does for the reference implementation.
//
// "utf-8" is handled natively (it needs no transform). Anything else is
// resolved through golang.org/x/text/encoding/ianaindex, which maps IANA
// charset names onto the encoding.Encoding implementations already
// vendored by x/text, reusing a library this module already depends on
// for collation rather than hand-rolling a codec table.
package textenc

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Codec decodes and encodes text under one named encoding.
type Codec struct {
	name string
	enc  encoding.Encoding // nil for utf-8, which needs no transform
}

// Lookup resolves name to a Codec. ok is false if the name is not a known
// encoding.
func Lookup(name string) (Codec, bool) {
	if name == "utf-8" || name == "utf8" || name == "" {
		return Codec{name: "utf-8"}, true
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return Codec{}, false
	}
	return Codec{name: name, enc: enc}, true
}

// Decode converts raw encoded bytes into a Go string.
func (c Codec) Decode(b []byte) (string, error) {
	if c.enc == nil {
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode converts a Go string into raw bytes under this encoding.
func (c Codec) Encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	return c.enc.NewEncoder().Bytes([]byte(s))
}
