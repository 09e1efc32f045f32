package stages

import (
	"fmt"
	"strings"
	"time"
)

// GetString reads a string-valued metadata key, returning "" for absent or
// mistyped values.
func GetString(meta map[string]any, key string) string {
	v, _ := meta[key].(string)
	return v
}

// GetBool reads a bool-valued metadata key.
func GetBool(meta map[string]any, key string) bool {
	v, _ := meta[key].(bool)
	return v
}

// GetInt reads an int-ish metadata value (int, int64, or float64, as YAML
// and JSON decoders variously produce), returning 0, false if absent or of
// another type.
func GetInt(meta map[string]any, key string) (int, bool) {
	switch v := meta[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// GetTime reads a timestamp-valued metadata value. yaml.v3 decodes
// YYYY-MM-DD and RFC3339 scalars into time.Time automatically; this
// also accepts a plain string in either of those two layouts, for values
// coming from JSON-sourced metadata (the config's metadata? section) or
// values written back by a prior stage.
func GetTime(meta map[string]any, key string) (time.Time, bool) {
	switch v := meta[key].(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StringList coerces a metadata value into a []string, accepting the
// shapes names for the tags field: a list of strings, a
// comma-separated string, a single string, or a list of {name: ...}
// objects.
func StringList(v any) []string {
	switch vv := v.(type) {
	case nil:
		return nil
	case string:
		if vv == "" {
			return nil
		}
		parts := strings.Split(vv, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			switch iv := item.(type) {
			case string:
				out = append(out, iv)
			case map[string]any:
				if name, ok := iv["name"].(string); ok {
					out = append(out, name)
				}
			}
		}
		return out
	default:
		return nil
	}
}

// AsStringOrAuthor coerces the site.author field, which the config accepts
// as either a bare string or an {name, email?, url?} object.
func AsStringOrAuthor(v any) (name, email, url string) {
	switch vv := v.(type) {
	case string:
		return vv, "", ""
	case map[string]any:
		return GetString(vv, "name"), GetString(vv, "email"), GetString(vv, "url")
	}
	return "", "", ""
}

// ContainsString reports whether a metadata value (a list, or a bare
// scalar) contains target, used by collection/linkset matching against
// array-valued metadata.
func ContainsString(v any, target string) bool {
	switch vv := v.(type) {
	case string:
		return vv == target
	case []string:
		for _, s := range vv {
			if s == target {
				return true
			}
		}
	case []any:
		for _, item := range vv {
			if s, ok := item.(string); ok && s == target {
				return true
			}
		}
	}
	return false
}

// StringsOfAny normalizes a metadata value that may be a single string or
// a list of strings into a []string (used for metadata.collection, which
// accepts "a name (string) or list of names").
func StringsOfAny(v any) []string {
	switch vv := v.(type) {
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// FormatDatePath renders a time.Time as the :date placeholder's YYYY/MM/DD form.
func FormatDatePath(t time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d", t.Year(), t.Month(), t.Day())
}

// StripExtension removes the final "." extension from a path, used by the
// permalinks stage's fallback pattern.
func StripExtension(path string) string {
	idx := strings.LastIndexByte(path, '.')
	slash := strings.LastIndexByte(path, '/')
	if idx <= slash {
		return path
	}
	return path[:idx]
}

// Basename returns the final path segment without extension.
func Basename(path string) string {
	name := path
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// Directory returns the path with its final segment removed ("" for a
// top-level file).
func Directory(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}
	return ""
}
