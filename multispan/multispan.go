// Package multispan presents an ordered list of files as a single seekable
// byte stream, so every other layer can treat a SLOB container as one file
// even when it has been split across several physical files.
//
// It wraps os.File access behind a small io.Reader/io.Seeker adapter,
// matching the Python reference implementation's MultiFileReader
// (original_source/pyglossary/plugin_lib/slob.py).
package multispan

import (
	"io"
	"os"
)

// Span presents an ordered list of files as one seekable, readable byte
// stream. Seeks past the end of the stream are permitted (the stream is
// logically sparse); reads past the end return fewer bytes than requested.
type Span struct {
	files  []*os.File
	ranges []fileRange
	size   int64
	offset int64
	closed bool
}

type fileRange struct {
	start, end int64 // end is exclusive
}

// Open opens every named file and builds a Span over their concatenation,
// in the order given.
func Open(filenames ...string) (*Span, error) {
	s := &Span{
		files:  make([]*os.File, 0, len(filenames)),
		ranges: make([]fileRange, 0, len(filenames)),
	}

	var offset int64
	for _, name := range filenames {
		f, err := os.Open(name)
		if err != nil {
			s.Close()
			return nil, err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			s.Close()
			return nil, err
		}
		size := info.Size()
		s.files = append(s.files, f)
		s.ranges = append(s.ranges, fileRange{start: offset, end: offset + size})
		offset += size
	}
	s.size = offset

	return s, nil
}

// Size returns the total byte length of the concatenated stream.
func (s *Span) Size() int64 { return s.size }

// Closed reports whether Close has been called.
func (s *Span) Closed() bool { return s.closed }

// Seek repositions the stream cursor. Whence follows io.Seeker semantics.
// Out-of-range offsets are accepted; they will simply read as EOF.
func (s *Span) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.offset = offset
	case io.SeekCurrent:
		s.offset += offset
	case io.SeekEnd:
		s.offset = s.size + offset
	default:
		return 0, os.ErrInvalid
	}
	return s.offset, nil
}

// Tell returns the current stream cursor position.
func (s *Span) Tell() int64 { return s.offset }

// Read fills p with up to len(p) bytes starting at the current cursor,
// advancing across file boundaries transparently. It returns fewer bytes
// than len(p) only at end of stream, matching io.Reader's short-read
// contract rather than returning io.EOF for a partial final read.
func (s *Span) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	total := 0
	remaining := p
	for len(remaining) > 0 {
		fileIndex := s.fileIndexFor(s.offset)
		if fileIndex < 0 {
			break
		}

		r := s.ranges[fileIndex]
		localOffset := s.offset - r.start
		toRead := remaining
		if avail := r.end - s.offset; int64(len(toRead)) > avail {
			toRead = toRead[:avail]
		}

		f := s.files[fileIndex]
		if _, err := f.Seek(localOffset, io.SeekStart); err != nil {
			return total, err
		}

		n, err := io.ReadFull(f, toRead)
		total += n
		s.offset += int64(n)
		remaining = remaining[n:]

		if n < len(toRead) || err != nil {
			break
		}
	}

	if total == 0 {
		return 0, io.EOF
	}
	return total, nil
}

// ReadN reads up to n bytes (fewer at end of stream), or everything that
// remains if n == -1.
func (s *Span) ReadN(n int) ([]byte, error) {
	if n < 0 {
		n = int(s.size - s.offset)
		if n < 0 {
			n = 0
		}
	}
	buf := make([]byte, n)
	read := 0
	for read < n {
		m, err := s.Read(buf[read:])
		read += m
		if err != nil {
			return buf[:read], nil
		}
		if m == 0 {
			break
		}
	}
	return buf[:read], nil
}

func (s *Span) fileIndexFor(offset int64) int {
	for i, r := range s.ranges {
		if offset >= r.start && offset < r.end {
			return i
		}
	}
	return -1
}

// Close releases all underlying file handles.
func (s *Span) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files = nil
	s.ranges = nil
	s.closed = true
	return firstErr
}
