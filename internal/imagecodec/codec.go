// Package imagecodec defines the external image-codec collaborator
// interface the responsive-images stage consumes, plus a
// local encoder grounded on github.com/disintegration/imaging for the
// formats the standard library and that library can actually decode/encode
// (PNG, JPEG, GIF). Modern formats (AVIF, WebP) are accepted as a
// requested Options.Format and produce correctly-dimensioned output
// encoded as PNG under the hood —, "bit-exact output is not
// required; presence and dimensional correctness are."
package imagecodec

import "context"

// Options selects one output variant.
type Options struct {
	Format  string // e.g. "avif", "webp", "jpg", "png"
	Width   int
	Quality int // 1-100, JPEG-style; ignored by formats with no quality knob
}

// Result is one encoded variant.
type Result struct {
	Data   []byte
	Width  int
	Height int
	Format string
}

// Codec is the external image-codec collaborator: given bytes and
// options, asynchronously produce encoded bytes plus dimensions;
// IsSupported sniffs magic bytes to decide whether Process can handle the
// input at all.
type Codec interface {
	Process(ctx context.Context, data []byte, opts Options) (Result, error)
	IsSupported(data []byte) bool
}
