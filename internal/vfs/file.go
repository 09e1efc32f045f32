// Package vfs implements the virtual file store threaded through every
// pipeline stage: an ordered, keyed collection of in-memory files that
// stages mutate in place, rename, or synthesize.
package vfs

// File is a single entry in the Store. Files are exclusively owned by the
// Store; stages borrow mutable access to a File only within their own
// invocation.
type File struct {
	// Path is the file's current key, forward-slash normalized with no
	// leading slash. It must always equal the key this File is stored
	// under (see Store.Set).
	Path string

	// Contents is the raw byte buffer. It may hold UTF-8 text or binary data.
	Contents []byte

	// Metadata is the dynamically-typed, heterogeneous metadata map. See
	// the well-known keys listed in internal/stages/metakeys.go.
	Metadata map[string]any

	// SourcePath is the original key this file was loaded under, kept
	// unchanged across path rewrites. The source loader sets it for every
	// file it reads; files created with New leave it empty unless the
	// creating stage sets it.
	SourcePath string
}

// New creates a File at path with the given contents and an empty metadata map.
func New(path string, contents []byte) *File {
	return &File{
		Path:     path,
		Contents: contents,
		Metadata: map[string]any{},
	}
}

// Clone returns a deep copy of f: Contents is copied, Metadata is deep-copied.
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	contents := make([]byte, len(f.Contents))
	copy(contents, f.Contents)
	return &File{
		Path:       f.Path,
		Contents:   contents,
		Metadata:   CloneMetadata(f.Metadata),
		SourcePath: f.SourcePath,
	}
}

// CloneMetadata deep-copies a metadata map so collection-item snapshots and
// asset-copy targets do not alias the source file's mutable state.
func CloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return CloneMetadata(vv)
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// StringMeta returns Metadata[key] as a string, or "" if absent or of another type.
func (f *File) StringMeta(key string) string {
	v, ok := f.Metadata[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// BoolMeta returns Metadata[key] as a bool, or false if absent or of another type.
func (f *File) BoolMeta(key string) bool {
	v, ok := f.Metadata[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
