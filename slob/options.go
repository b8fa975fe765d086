package slob

import "github.com/arloliu/goslob/internal/options"

// Option configures a Writer at construction, using the generic
// functional-options pattern in internal/options.Option[T].
type Option = options.Option[*Writer]

// WithEncoding sets the text encoding used for keys, fragments, tags, and
// content types. Defaults to "utf-8".
func WithEncoding(name string) Option {
	return options.NoError(func(w *Writer) { w.encoding = name })
}

// WithCompression sets the compression scheme used for bin payloads.
// Defaults to "lzma2". Pass "" for identity (no compression), used
// internally by the alias and resolved-alias sub-writers.
func WithCompression(name string) Option {
	return options.NoError(func(w *Writer) { w.compression = name })
}

// WithWorkDir sets the directory the Writer's temporary streams are
// created under. Defaults to the system temp directory.
func WithWorkDir(dir string) Option {
	return options.NoError(func(w *Writer) { w.workDir = dir })
}

// WithMinBinSize sets the uncompressed bin size threshold that forces a
// rollover. Defaults to 512 KiB.
func WithMinBinSize(n int64) Option {
	return options.NoError(func(w *Writer) { w.minBinSize = n })
}

// WithMaxRedirects sets the maximum alias chain depth. 0 disables alias
// support entirely.
func WithMaxRedirects(n int) Option {
	return options.NoError(func(w *Writer) { w.maxRedirects = n })
}

// WithObserver sets the sink that receives Writer lifecycle and
// diagnostic events.
func WithObserver(obs Observer) Option {
	return options.NoError(func(w *Writer) { w.observer = obs })
}
