package header

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/goslob/format"
	"github.com/arloliu/goslob/multispan"
	"github.com/arloliu/goslob/structcodec"
)

// writeTestHeader serializes a minimal but complete header prelude, the
// same field order Writer.assemble uses, followed by ref_count so Read's
// caller has something to stop at.
func writeTestHeader(t *testing.T, tags []Tag, contentTypes []string, refCount uint32) string {
	t.Helper()

	var buf bytes.Buffer
	hw := structcodec.NewWriter(&buf, func(s string) ([]byte, error) { return []byte(s), nil })

	buf.Write(format.Magic[:])
	var uuid [format.UUIDSize]byte
	for i := range uuid {
		uuid[i] = byte(i)
	}
	buf.Write(uuid[:])

	mustWrite(t, hw.WriteTinyTextUTF8("utf-8"))
	mustWrite(t, hw.WriteTinyTextUTF8("zlib"))

	mustWrite(t, hw.WriteByte(byte(len(tags))))
	for _, tg := range tags {
		mustWrite(t, hw.WriteTinyText(tg.Name, false))
		mustWrite(t, hw.WriteTinyText(tg.Value, true))
	}

	mustWrite(t, hw.WriteByte(byte(len(contentTypes))))
	for _, ct := range contentTypes {
		mustWrite(t, hw.WriteText(ct))
	}

	mustWrite(t, hw.WriteUint32(7))         // blob_count
	mustWrite(t, hw.WriteUint64(1000))      // store_offset
	mustWrite(t, hw.WriteUint64(2000))      // file_size
	mustWrite(t, hw.WriteUint32(refCount))  // ref_count

	dir := t.TempDir()
	path := filepath.Join(dir, "header.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func mustWrite(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReadFromParsesFixedPrelude(t *testing.T) {
	tags := []Tag{{Name: "version.goslob", Value: "1"}, {Name: "created.at", Value: "2026-01-01"}}
	ctypes := []string{"text/html", "text/plain"}
	path := writeTestHeader(t, tags, ctypes, 3)

	span, err := multispan.Open(path)
	if err != nil {
		t.Fatalf("multispan.Open: %v", err)
	}
	defer span.Close()

	h, err := ReadFrom(span)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}

	if h.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want utf-8", h.Encoding)
	}
	if h.Compression != "zlib" {
		t.Errorf("Compression = %q, want zlib", h.Compression)
	}
	if len(h.Tags) != 2 {
		t.Fatalf("len(Tags) = %d, want 2", len(h.Tags))
	}
	if v, ok := h.TagValue("version.goslob"); !ok || v != "1" {
		t.Errorf("TagValue(version.goslob) = %q, %v", v, ok)
	}
	if len(h.ContentTypes) != 2 || h.ContentTypes[0] != "text/html" {
		t.Errorf("ContentTypes = %v", h.ContentTypes)
	}
	if h.BlobCount != 7 || h.StoreOffset != 1000 || h.FileSize != 2000 {
		t.Errorf("BlobCount/StoreOffset/FileSize = %d/%d/%d", h.BlobCount, h.StoreOffset, h.FileSize)
	}
	if h.RefsOffset != span.Tell() {
		t.Errorf("RefsOffset = %d, want %d", h.RefsOffset, span.Tell())
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bin")
	if err := os.WriteFile(path, []byte("not-a-slob-file-at-all!!"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	span, err := multispan.Open(path)
	if err != nil {
		t.Fatalf("multispan.Open: %v", err)
	}
	defer span.Close()

	if _, err := ReadFrom(span); err == nil {
		t.Fatal("ReadFrom: expected error for bad magic")
	}
}

func TestSetTagValueRewritesInPlace(t *testing.T) {
	tags := []Tag{{Name: "created.at", Value: "old-value"}}
	path := writeTestHeader(t, tags, nil, 0)

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if err := SetTagValue(path, "created.at", "new-value"); err != nil {
		t.Fatalf("SetTagValue: %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if before.Size() != after.Size() {
		t.Fatalf("SetTagValue changed file size: %d -> %d", before.Size(), after.Size())
	}

	span, err := multispan.Open(path)
	if err != nil {
		t.Fatalf("multispan.Open: %v", err)
	}
	defer span.Close()

	h, err := ReadFrom(span)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if v, _ := h.TagValue("created.at"); v != "new-value" {
		t.Errorf("TagValue(created.at) = %q, want new-value", v)
	}
}

func TestSetTagValueUnknownTag(t *testing.T) {
	path := writeTestHeader(t, []Tag{{Name: "created.at", Value: "x"}}, nil, 0)
	if err := SetTagValue(path, "does.not.exist", "y"); err == nil {
		t.Fatal("SetTagValue: expected error for unknown tag")
	}
}
