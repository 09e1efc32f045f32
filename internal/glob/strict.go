package glob

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidatePattern rejects patterns that are not well-formed glob syntax,
// using doublestar as a second, independently-implemented parser. The
// matcher used at build time is always Match/MatchAny above (no brace
// expansion, no character classes); ValidatePattern exists only so the
// config loader can reject a malformed pattern (an unterminated character
// class, for example) with a precise error at load time instead of it
// silently matching nothing at build time.
func ValidatePattern(pattern string) error {
	if _, err := doublestar.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}
