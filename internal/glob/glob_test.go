package glob_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/stretchr/testify/require"
)

func TestMatch_StarWithinSegment(t *testing.T) {
	require.True(t, glob.Match("posts/*.md", "posts/hello.md"))
	require.False(t, glob.Match("posts/*.md", "posts/sub/hello.md"))
}

func TestMatch_QuestionMarkSingleChar(t *testing.T) {
	require.True(t, glob.Match("img-?.png", "img-1.png"))
	require.False(t, glob.Match("img-?.png", "img-12.png"))
}

func TestMatch_LeadingDoubleStarAnyDepth(t *testing.T) {
	require.True(t, glob.Match("**/*.html", "about.html"))
	require.True(t, glob.Match("**/*.html", "blog/posts/hello.html"))
	require.False(t, glob.Match("**/*.html", "blog/posts/hello.md"))
}

func TestMatch_TrailingDoubleStarMatchesRemainder(t *testing.T) {
	require.True(t, glob.Match("_layouts/**", "_layouts/base.njk"))
	require.True(t, glob.Match("_layouts/**", "_layouts/partials/nav.njk"))
	require.True(t, glob.Match("_layouts/**", "_layouts"))
	require.False(t, glob.Match("_layouts/**", "_src/base.njk"))
}

func TestMatch_NoBraceExpansion(t *testing.T) {
	// Literal braces are not special; they must match verbatim.
	require.True(t, glob.Match("a{b,c}.md", "a{b,c}.md"))
	require.False(t, glob.Match("a{b,c}.md", "ab.md"))
}

func TestMatchAny(t *testing.T) {
	patterns := []string{"posts/**/*.md", "pages/*.md"}
	require.True(t, glob.MatchAny(patterns, "posts/2024/a.md"))
	require.True(t, glob.MatchAny(patterns, "pages/about.md"))
	require.False(t, glob.MatchAny(patterns, "drafts/a.md"))
}

func TestMatchAny_EmptyPatternsMatchesNothing(t *testing.T) {
	require.False(t, glob.MatchAny(nil, "anything.md"))
}

func TestMatch_FullStringAnchored(t *testing.T) {
	require.False(t, glob.Match("posts", "posts/a.md"))
	require.False(t, glob.Match("posts/a.md", "posts"))
}
