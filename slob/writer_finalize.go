package slob

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/arloliu/goslob/collation"
	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/format"
	"github.com/arloliu/goslob/multispan"
	"github.com/arloliu/goslob/refs"
	"github.com/arloliu/goslob/structcodec"

	"github.com/google/uuid"
)

// openMainRefList presents the main ref-positions and refs temp files as a
// single RefList view: multispan.Span concatenates them contiguously, so
// the position table (w.refCount × u64, exactly the size of
// ref-positions) lines up with the data region (refs) the way ItemList
// expects (see itemlist.New's offset math).
func (w *Writer) openMainRefList() (*refs.RefList, func() error, error) {
	span, err := multispan.Open(w.refPositions.path, w.refsStream.path)
	if err != nil {
		return nil, nil, err
	}
	rl, err := refs.NewRefListWithCount(span, 0, w.encoding, int(w.refCount))
	if err != nil {
		span.Close()
		return nil, nil, err
	}
	return rl, span.Close, nil
}

// sortRefs rebuilds ref-positions in IDENTICAL sort-key order over the
// refs recorded so far.
func (w *Writer) sortRefs() error {
	notify(w.observer, EventBeginSort, nil)

	if w.refCount == 0 {
		notify(w.observer, EventEndSort, nil)
		return nil
	}

	rl, closeSpan, err := w.openMainRefList()
	if err != nil {
		return err
	}
	defer closeSpan()

	n := rl.Len()
	type entry struct {
		idx int
		key []byte
	}
	order := make([]entry, n)
	coll := collation.Get(collation.Identical, 0)
	for i := 0; i < n; i++ {
		ref, err := rl.Get(i)
		if err != nil {
			return err
		}
		order[i] = entry{idx: i, key: coll.SortKey(ref.Key)}
	}
	sort.Slice(order, func(a, b int) bool {
		return bytes.Compare(order[a].key, order[b].key) < 0
	})

	sorted, err := newAppendStream(w.workDir, "ref-positions-sorted")
	if err != nil {
		return err
	}
	posW := structcodec.NewWriter(sorted, nil)
	for _, e := range order {
		pos, err := rl.Pos(e.idx)
		if err != nil {
			sorted.Close()
			return err
		}
		if err := posW.WriteUint64(pos); err != nil {
			sorted.Close()
			return err
		}
	}
	sortedPath := sorted.path
	sorted.Close()

	if err := w.refPositions.Close(); err != nil {
		return err
	}
	if err := os.Rename(sortedPath, w.refPositions.path); err != nil {
		return err
	}
	if err := w.refPositions.Reopen(); err != nil {
		return err
	}

	notify(w.observer, EventEndSort, nil)
	return nil
}

// Finalize runs the sort pass, alias resolution, and final single-pass
// assembly.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	if w.closed {
		return errs.ErrWriterClosed
	}

	notify(w.observer, EventBeginFinalize, nil)

	if err := w.flushBin(); err != nil {
		return err
	}
	if err := w.sortRefs(); err != nil {
		return err
	}
	if w.maxRedirects > 0 {
		if err := w.resolveAliases(); err != nil {
			return err
		}
	}
	if err := w.assemble(); err != nil {
		return err
	}

	w.finalized = true
	notify(w.observer, EventEndFinalize, nil)

	w.refPositions.Close()
	w.refsStream.Close()
	w.storePositions.Close()
	w.storeStream.Close()
	if w.aliasWriter != nil {
		w.aliasWriter.Close()
	}
	if w.ownWorkDir {
		os.RemoveAll(w.workDir)
	}

	return nil
}

// assemble writes the final output file in one pass: fixed header fields
// first (with store_offset/file_size computed from temp-stream sizes),
// then the four temp streams copied verbatim in order.
func (w *Writer) assemble() error {
	var hdr bytes.Buffer
	hw := structcodec.NewWriter(&hdr, func(s string) ([]byte, error) { return w.textCodec.Encode(s) })

	hdr.Write(format.Magic[:])
	id := uuid.New()
	hdr.Write(id[:])

	if err := hw.WriteTinyTextUTF8(w.encoding); err != nil {
		return err
	}
	if err := hw.WriteTinyTextUTF8(w.compression); err != nil {
		return err
	}

	if err := hw.WriteByte(byte(len(w.tags))); err != nil {
		return err
	}
	for _, t := range w.tags {
		if err := hw.WriteTinyText(t.Name, false); err != nil {
			return err
		}
		if err := hw.WriteTinyText(t.Value, true); err != nil {
			return err
		}
	}

	ctypes := w.ctypes.Names()
	if err := hw.WriteByte(byte(len(ctypes))); err != nil {
		return err
	}
	for _, ct := range ctypes {
		if err := hw.WriteText(ct); err != nil {
			return err
		}
	}

	if err := hw.WriteUint32(w.blobCount); err != nil {
		return err
	}

	refPosSize := w.refPositions.size
	refsSize := w.refsStream.size
	storePosSize := w.storePositions.size
	storeSize := w.storeStream.size

	headerFixedLen := uint64(hdr.Len())
	storeOffset := headerFixedLen + 8 + 8 + 4 + uint64(refPosSize) + uint64(refsSize)
	fileSize := headerFixedLen + 8 + 8 + 4 + 4 + uint64(refPosSize) + uint64(refsSize) + uint64(storePosSize) + uint64(storeSize)

	if err := hw.WriteUint64(storeOffset); err != nil {
		return err
	}
	if err := hw.WriteUint64(fileSize); err != nil {
		return err
	}
	if err := hw.WriteUint32(w.refCount); err != nil {
		return err
	}

	out, err := os.Create(w.filename)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(hdr.Bytes()); err != nil {
		return err
	}
	if err := copyStream(out, w.refPositions); err != nil {
		return err
	}
	if err := copyStream(out, w.refsStream); err != nil {
		return err
	}

	bcw := structcodec.NewWriter(out, nil)
	if err := bcw.WriteUint32(w.binCount); err != nil {
		return err
	}
	if err := copyStream(out, w.storePositions); err != nil {
		return err
	}
	if err := copyStream(out, w.storeStream); err != nil {
		return err
	}

	return nil
}

// copyStream rewinds src to its start and copies its full contents to w.
func copyStream(w io.Writer, src *appendStream) error {
	if _, err := src.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := io.CopyN(w, src.f, src.size)
	return err
}
