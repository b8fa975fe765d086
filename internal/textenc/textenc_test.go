package textenc

import "testing"

func TestLookupUTF8(t *testing.T) {
	for _, name := range []string{"utf-8", "utf8", ""} {
		c, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q): not found", name)
		}
		if c.enc != nil {
			t.Fatalf("Lookup(%q): expected nil transform codec", name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("not-a-real-encoding"); ok {
		t.Fatal("Lookup: expected unknown encoding to fail")
	}
}

func TestUTF8RoundTrip(t *testing.T) {
	c, ok := Lookup("utf-8")
	if !ok {
		t.Fatal("Lookup(utf-8) failed")
	}
	want := "héllo, 世界"
	enc, err := c.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip: got %q, want %q", got, want)
	}
}

func TestISO88591RoundTrip(t *testing.T) {
	c, ok := Lookup("iso-8859-1")
	if !ok {
		t.Fatal("Lookup(iso-8859-1) failed")
	}
	want := "café"
	enc, err := c.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(enc) != len([]rune(want)) {
		t.Fatalf("ISO-8859-1 encoding of %q should be one byte per rune, got %d bytes", want, len(enc))
	}
	got, err := c.Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip: got %q, want %q", got, want)
	}
}
