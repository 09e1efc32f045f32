// Package glob implements the restricted glob dialect used by every
// downstream pipeline stage:
//
//	*    matches within a path segment, not across '/'
//	?    matches a single non-slash character
//	**/  matches zero or more whole directory segments
//	**   trailing, matches anything remaining (including further slashes)
//
// There is no brace expansion and no character classes. Matching is
// full-string anchored against paths already normalized to forward
// slashes (no leading slash, no '.'/'..' segments).
package glob

import "strings"

// Match reports whether path satisfies pattern.
func Match(pattern, path string) bool {
	return matchSegments(splitPattern(pattern), splitPath(path))
}

// MatchAny reports whether path satisfies any of patterns. A nil or empty
// patterns list never matches (callers treat "no patterns configured" as
// "match nothing" consistently across stages).
func MatchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if Match(p, path) {
			return true
		}
	}
	return false
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// patSeg distinguishes a literal/glob path segment from a "**" segment
// (which, unlike '*', crosses slash boundaries).
type patSeg struct {
	globstar bool
	lit      string // raw segment text when !globstar
}

func splitPattern(pattern string) []patSeg {
	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" {
		return nil
	}
	parts := strings.Split(pattern, "/")
	out := make([]patSeg, 0, len(parts))
	for _, p := range parts {
		out = append(out, patSeg{globstar: p == "**", lit: p})
	}
	return out
}

func matchSegments(pat []patSeg, path []string) bool {
	if len(pat) == 0 {
		return len(path) == 0
	}

	head := pat[0]
	if head.globstar {
		// "**/" (not the final segment): zero-or-more whole segments.
		if len(pat) > 1 {
			for i := 0; i <= len(path); i++ {
				if matchSegments(pat[1:], path[i:]) {
					return true
				}
			}
			return false
		}
		// Trailing "**": matches everything remaining, including zero segments.
		return true
	}

	if len(path) == 0 {
		return false
	}
	if !matchSegment(head.lit, path[0]) {
		return false
	}
	return matchSegments(pat[1:], path[1:])
}

// matchSegment matches a single path segment against a pattern segment
// containing '*' and '?' wildcards (never crossing segment boundaries,
// since both operands are already single segments).
func matchSegment(pattern, seg string) bool {
	return matchSegmentRunes([]rune(pattern), []rune(seg))
}

func matchSegmentRunes(pattern, seg []rune) bool {
	if len(pattern) == 0 {
		return len(seg) == 0
	}

	switch pattern[0] {
	case '*':
		// Try every possible split point (including consuming zero chars).
		for i := 0; i <= len(seg); i++ {
			if matchSegmentRunes(pattern[1:], seg[i:]) {
				return true
			}
		}
		return false
	case '?':
		if len(seg) == 0 {
			return false
		}
		return matchSegmentRunes(pattern[1:], seg[1:])
	default:
		if len(seg) == 0 || seg[0] != pattern[0] {
			return false
		}
		return matchSegmentRunes(pattern[1:], seg[1:])
	}
}
