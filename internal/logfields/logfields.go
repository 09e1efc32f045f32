// Package logfields provides canonical log field names and helpers for structured logging in Janos.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
// These are used for structured logging with slog.
const (
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyError       = "error"
	KeyName        = "name"
	KeyURL         = "url"
	KeyCollection  = "collection"
	KeyTag         = "tag"
	KeyLayout      = "layout"
	KeyPermalink   = "permalink"
	KeyPage        = "page"
	KeyCount       = "count"
	KeyMode        = "mode"
	KeyWmID        = "wm_id"
	KeyFormat      = "format"
	KeyBuildID     = "build_id"
)

// Stage returns a slog.Attr for a pipeline stage name.
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }

// DurationMS returns a slog.Attr for duration in milliseconds.
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Path returns a slog.Attr for a file store key.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// File returns a slog.Attr for a source file name.
func File(f string) slog.Attr { return slog.String(KeyFile, f) }

// Name returns a slog.Attr for a generic name field.
func Name(n string) slog.Attr { return slog.String(KeyName, n) }

// URL returns a slog.Attr for a URL field.
func URL(u string) slog.Attr { return slog.String(KeyURL, u) }

// Collection returns a slog.Attr for a collection name.
func Collection(c string) slog.Attr { return slog.String(KeyCollection, c) }

// Tag returns a slog.Attr for a tag name.
func Tag(t string) slog.Attr { return slog.String(KeyTag, t) }

// Layout returns a slog.Attr for a resolved layout name.
func Layout(l string) slog.Attr { return slog.String(KeyLayout, l) }

// Permalink returns a slog.Attr for a resolved permalink.
func Permalink(p string) slog.Attr { return slog.String(KeyPermalink, p) }

// Page returns a slog.Attr for a pagination page number.
func Page(n int) slog.Attr { return slog.Int(KeyPage, n) }

// Count returns a slog.Attr for a generic count.
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// Mode returns a slog.Attr for the build mode (development|production).
func Mode(m string) slog.Attr { return slog.String(KeyMode, m) }

// WmID returns a slog.Attr for a webmention ID.
func WmID(id int) slog.Attr { return slog.Int(KeyWmID, id) }

// Format returns a slog.Attr for an image/feed format.
func Format(f string) slog.Attr { return slog.String(KeyFormat, f) }

// BuildID returns a slog.Attr for the per-build correlation ID.
func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }

// Error returns a slog.Attr for an error, or an empty string if nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
