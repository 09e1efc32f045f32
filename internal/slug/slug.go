// Package slug implements the two closely related slugging rules used
// elsewhere in the pipeline: the tag/tag-cloud slug and the
// diacritic-stripping permalink-substitution slug. Both are idempotent:
// Slug(Slug(x)) == Slug(x).
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tag slugs a tag name: lowercase, trim, replace non-word runs with '-',
// collapse/trim hyphens. This is the default and is also the rule behind
// the `slug` template filter.
func Tag(name string) string {
	return collapse(strings.ToLower(strings.TrimSpace(name)), isWordRune)
}

// Permalink slugs a value for substitution into a permalink pattern:
// lowercase, diacritics stripped via Unicode NFD decomposition,
// non-alphanumeric runs replaced with '-', then collapsed/trimmed.
func Permalink(value string) string {
	decomposed := stripDiacritics(strings.ToLower(strings.TrimSpace(value)))
	return collapse(decomposed, isAlphanumericRune)
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isAlphanumericRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// collapse replaces runs of runes that fail keep with a single '-', then
// trims leading/trailing hyphens. It is idempotent: re-applying collapse
// to its own output is a no-op, since the output already satisfies the
// "no leading/trailing/doubled hyphen" invariant.
func collapse(s string, keep func(rune) bool) string {
	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen && b.Len() > 0 {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
