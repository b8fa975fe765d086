package slob

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/arloliu/goslob/compression"
	"github.com/arloliu/goslob/errs"
	"github.com/arloliu/goslob/format"
	"github.com/arloliu/goslob/header"
	"github.com/arloliu/goslob/internal/options"
	"github.com/arloliu/goslob/internal/textenc"
	"github.com/arloliu/goslob/internal/typeintern"
	"github.com/arloliu/goslob/structcodec"
)

// DefaultMinBinSize is the uncompressed bin size threshold that forces a
// rollover when no WithMinBinSize option is given.
const DefaultMinBinSize = 512 * 1024

// DefaultMaxRedirects is the alias chain depth limit when no
// WithMaxRedirects option is given.
const DefaultMaxRedirects = 5

// Writer orchestrates the temp-stream, sort, alias-resolution, and
// final-assembly pipeline.
type Writer struct {
	filename     string
	workDir      string
	ownWorkDir   bool
	encoding     string
	compression  string
	minBinSize   int64
	maxRedirects int
	observer     Observer

	textCodec textenc.Codec
	codec     compression.Codec
	ctypes    *typeintern.Table

	tags []header.Tag

	refPositions *appendStream
	refsStream   *appendStream
	refCount     uint32

	storePositions *appendStream
	storeStream    *appendStream
	binCount       uint32
	blobCount      uint32

	currentBin *BinBuilder

	aliasWriter *Writer

	closed    bool
	finalized bool
}

// NewWriter creates a new container builder targeting filename, which
// must not already exist.
func NewWriter(filename string, opts ...Option) (*Writer, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, errs.ErrFileExists
	}

	w := &Writer{
		filename:     filename,
		encoding:     "utf-8",
		compression:  "lzma2",
		minBinSize:   DefaultMinBinSize,
		maxRedirects: DefaultMaxRedirects,
		ctypes:       typeintern.New(),
		currentBin:   NewBinBuilder(),
	}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	codec, ok := textenc.Lookup(w.encoding)
	if !ok {
		return nil, errs.ErrUnknownEncoding
	}
	w.textCodec = codec

	registry := compression.NewRegistry()
	cc, ok := registry.Lookup(w.compression)
	if !ok {
		return nil, errs.ErrUnknownCompression
	}
	w.codec = cc

	// Each Writer gets its own unique temp directory (inside workDir when
	// one was given), so nested alias writers sharing a workDir never
	// open the same temp stream files.
	dir, err := os.MkdirTemp(w.workDir, "goslob-")
	if err != nil {
		return nil, err
	}
	w.workDir = dir
	w.ownWorkDir = true

	if w.refPositions, err = newAppendStream(w.workDir, "ref-positions"); err != nil {
		return nil, err
	}
	if w.refsStream, err = newAppendStream(w.workDir, "refs"); err != nil {
		return nil, err
	}
	if w.storePositions, err = newAppendStream(w.workDir, "store-positions"); err != nil {
		return nil, err
	}
	if w.storeStream, err = newAppendStream(w.workDir, "store"); err != nil {
		return nil, err
	}

	if w.maxRedirects > 0 {
		aliasPath := filepath.Join(w.workDir, "aliases")
		aw, err := NewWriter(aliasPath,
			WithWorkDir(w.workDir),
			WithEncoding(w.encoding),
			WithCompression(""),
			WithMaxRedirects(0),
		)
		if err != nil {
			return nil, err
		}
		w.aliasWriter = aw
	}

	w.seedDefaultTags()

	return w, nil
}

func (w *Writer) seedDefaultTags() {
	w.tags = append(w.tags,
		header.Tag{Name: "version.go", Value: runtime.Version()},
		header.Tag{Name: "version.goslob", Value: "1"},
		header.Tag{Name: "version.collation", Value: "x/text/collate"},
		header.Tag{Name: "created.at", Value: time.Now().UTC().Format(time.RFC3339)},
	)
}

// Tag sets a header tag. Tag names over format.MaxTinyTextLen or values
// over format.MaxTinyTextLen encoded bytes are dropped with an observer
// event rather than failing the call.
func (w *Writer) Tag(name, value string) {
	if len(name) > format.MaxTinyTextLen {
		notify(w.observer, EventTagNameTooLong, name)
		return
	}
	if len(value) > format.MaxTinyTextLen {
		notify(w.observer, EventTagValueTooLong, name)
		return
	}
	for i, t := range w.tags {
		if t.Name == name {
			w.tags[i].Value = value
			return
		}
	}
	w.tags = append(w.tags, header.Tag{Name: name, Value: value})
}

// Key is a single lookup key with an optional intra-blob fragment anchor.
type Key struct {
	Text     string
	Fragment string
}

// K builds a bare Key with no fragment.
func K(text string) Key { return Key{Text: text} }

// KF builds a Key with a fragment.
func KF(text, fragment string) Key { return Key{Text: text, Fragment: fragment} }

// Add stores blob under every surviving key, interning contentType in
// insertion order.
func (w *Writer) Add(blob []byte, contentType string, keys ...Key) error {
	if w.closed || w.finalized {
		return errs.ErrWriterClosed
	}

	if uint64(len(blob)) > format.MaxBlobLen {
		notify(w.observer, EventContentTooLong, nil)
		return nil
	}
	if len(contentType) > format.MaxTextLen {
		notify(w.observer, EventContentTypeTooLong, contentType)
		return nil
	}

	surviving := make([]Key, 0, len(keys))
	for _, k := range keys {
		if len(k.Text) > format.MaxTextLen {
			notify(w.observer, EventKeyTooLong, k.Text)
			continue
		}
		if len(k.Fragment) > format.MaxTinyTextLen {
			notify(w.observer, EventKeyTooLong, k.Text)
			continue
		}
		surviving = append(surviving, k)
	}
	if len(surviving) == 0 {
		return nil
	}

	ctypeID := w.ctypes.Intern(contentType)
	w.blobCount++

	if w.currentBin.Len() == 0 {
		// This Add opens a new bin: count it now so bin_index values
		// assigned to refs are correct even before the bin flushes.
		w.binCount++
	}
	binIndex := w.binCount - 1
	itemIndex, err := w.currentBin.Add(ctypeID, blob)
	if err != nil {
		return err
	}

	for _, k := range surviving {
		if err := w.writeRef(k.Text, binIndex, uint16(itemIndex), k.Fragment); err != nil {
			return err
		}
	}

	if w.currentBin.Size() >= w.minBinSize || w.currentBin.Len() >= format.MaxBinItemCount {
		if err := w.flushBin(); err != nil {
			return err
		}
	}

	return nil
}

// writeRef appends one ref record to the temp ref streams.
func (w *Writer) writeRef(key string, binIndex uint32, itemIndex uint16, fragment string) error {
	keyBytes, err := w.textCodec.Encode(key)
	if err != nil {
		return err
	}
	fragBytes, err := w.textCodec.Encode(fragment)
	if err != nil {
		return err
	}
	if len(keyBytes) > format.MaxTextLen || len(fragBytes) > format.MaxTinyTextLen {
		notify(w.observer, EventKeyTooLong, key)
		return nil
	}

	var body bytes.Buffer
	bw := structcodec.NewWriter(&body, func(s string) ([]byte, error) { return w.textCodec.Encode(s) })
	if err := bw.WriteText(key); err != nil {
		return err
	}
	if err := bw.WriteUint32(binIndex); err != nil {
		return err
	}
	if err := bw.WriteUint16(itemIndex); err != nil {
		return err
	}
	if err := bw.WriteTinyText(fragment, false); err != nil {
		return err
	}

	offset := w.refsStream.Offset()
	if _, err := w.refsStream.Write(body.Bytes()); err != nil {
		return err
	}

	posW := structcodec.NewWriter(w.refPositions, nil)
	if err := posW.WriteUint64(uint64(offset)); err != nil {
		return err
	}
	w.refCount++
	return nil
}

// flushBin compresses and appends the current bin to the store stream.
func (w *Writer) flushBin() error {
	if w.currentBin.Len() == 0 {
		return nil
	}
	entry, err := w.currentBin.Finalize(w.codec.Compress)
	if err != nil {
		return err
	}

	offset := w.storeStream.Offset()
	if _, err := w.storeStream.Write(entry); err != nil {
		return err
	}
	posW := structcodec.NewWriter(w.storePositions, nil)
	return posW.WriteUint64(uint64(offset))
}

// AddAlias registers key as a redirect to target_key, resolved during
// Finalize. Requires max_redirects > 0.
func (w *Writer) AddAlias(key string, target Key) error {
	if w.maxRedirects == 0 {
		return errs.ErrAliasesDisabled
	}
	if len(key) > format.MaxTextLen {
		notify(w.observer, EventAliasTooLong, key)
		return nil
	}
	if len(target.Text) > format.MaxTextLen {
		notify(w.observer, EventAliasTargetTooLong, target.Text)
		return nil
	}

	encoded := encodeAliasTarget(target.Text, target.Fragment)
	return w.aliasWriter.Add(encoded, "", K(key))
}

// Close releases temporary resources without finalizing. The output file
// is only created by Finalize, so closing an unfinalized Writer leaves no
// output file at all.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.aliasWriter != nil {
		w.aliasWriter.Close()
	}
	w.refPositions.Close()
	w.refsStream.Close()
	w.storePositions.Close()
	w.storeStream.Close()

	if w.ownWorkDir {
		os.RemoveAll(w.workDir)
	}
	return nil
}
