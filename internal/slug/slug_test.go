package slug_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/slug"
	"github.com/stretchr/testify/require"
)

func TestTag_LowercasesAndHyphenates(t *testing.T) {
	require.Equal(t, "golang", slug.Tag("Golang"))
	require.Equal(t, "static-site-generators", slug.Tag("Static Site Generators!"))
	require.Equal(t, "c", slug.Tag("  C++ "))
}

func TestPermalink_StripsDiacriticsAndHyphenates(t *testing.T) {
	require.Equal(t, "cafe-du-monde", slug.Permalink("Café du Monde"))
	require.Equal(t, "my-post", slug.Permalink("My Post"))
	require.Equal(t, "uber", slug.Permalink("Über"))
}

func TestSlug_Idempotent(t *testing.T) {
	inputs := []string{"Hello, World!", "Café du Monde", "already-slugged", "  multiple   spaces  "}
	for _, in := range inputs {
		once := slug.Tag(in)
		twice := slug.Tag(once)
		require.Equal(t, once, twice, "Tag slug not idempotent for %q", in)

		onceP := slug.Permalink(in)
		twiceP := slug.Permalink(onceP)
		require.Equal(t, onceP, twiceP, "Permalink slug not idempotent for %q", in)
	}
}

func TestTag_EmptyAndPunctuationOnly(t *testing.T) {
	require.Equal(t, "", slug.Tag("   "))
	require.Equal(t, "", slug.Tag("!!!"))
}
