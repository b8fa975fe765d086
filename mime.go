// Package goslob provides a reader/writer for the SLOB container format: a
// single-file, read-optimized, compressed key→blob dictionary with
// locale-aware collation, multi-key aliasing, and content typing.
//
// The core API lives in the slob subpackage (Reader, Writer, Blob);
// this file defines the handful of MIME constants a host glossary
// converter needs when calling Writer.Add.
package goslob

// MIME type strings commonly used as a Writer.Add content_type, lifted
// from the Python reference implementation's MIMETypes table
// (original_source/pyglossary/plugin_lib/slob.py).
const (
	MIMEText = "text/plain"
	MIMEHTML = "text/html"
	MIMECSS  = "text/css"
	MIMEJS   = "application/javascript"
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEGIF  = "image/gif"
	MIMESVG  = "image/svg+xml"
	MIMEOGG  = "audio/ogg"
	MIMEMP3  = "audio/mpeg"
)

// MIMETypes maps a lowercase file extension (without the leading dot) to
// its MIME type, for a host converter deciding a blob's content_type from
// a source filename.
var MIMETypes = map[string]string{
	"txt":  MIMEText,
	"html": MIMEHTML,
	"htm":  MIMEHTML,
	"css":  MIMECSS,
	"js":   MIMEJS,
	"png":  MIMEPNG,
	"jpg":  MIMEJPEG,
	"jpeg": MIMEJPEG,
	"gif":  MIMEGIF,
	"svg":  MIMESVG,
	"ogg":  MIMEOGG,
	"mp3":  MIMEMP3,
}
