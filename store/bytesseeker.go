package store

import "bytes"

// newBytesSeeker wraps an in-memory byte slice as itemlist's rawSource
// (Seek + Read), reusing bytes.Reader's existing implementation of both.
func newBytesSeeker(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
