package slob

import (
	"os"
	"path/filepath"
)

// appendStream is one of the Writer's four temporary append-only files.
// It tracks its own current size so callers can record the byte offset a
// write landed at without a separate stat call.
type appendStream struct {
	f    *os.File
	path string
	size int64
}

func newAppendStream(dir, name string) (*appendStream, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &appendStream{f: f, path: path}, nil
}

// Offset returns the byte offset the next Write will land at.
func (s *appendStream) Offset() int64 { return s.size }

func (s *appendStream) Write(b []byte) (int, error) {
	n, err := s.f.Write(b)
	s.size += int64(n)
	return n, err
}

// Reopen closes the stream (if still open) and reopens it read/write in
// append mode, re-reading its size from disk, used after a sort pass
// replaces the file's contents wholesale via os.Rename and the Writer
// needs to keep appending to the new file.
func (s *appendStream) Reopen() error {
	if err := s.Close(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	s.f = f
	s.size = info.Size()
	return nil
}

func (s *appendStream) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *appendStream) Remove() error {
	s.Close()
	return os.Remove(s.path)
}
