package stages_test

import (
	"strings"
	"testing"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stages"
	"github.com/janos-ssg/janos/internal/vfs"
	"github.com/stretchr/testify/require"
)

func TestSitemapStage_SkipsExcludedAndNoindex(t *testing.T) {
	store := vfs.NewStore()
	ctx := newTestContext()
	ctx.SetSite(pipelinectx.Site{BaseURL: "https://example.com"})

	ok1 := vfs.New("blog/a/index.html", nil)
	ok1.Metadata[stages.MetaPermalink] = "/blog/a/"
	store.Set(ok1.Path, ok1)

	noindex := vfs.New("blog/b/index.html", nil)
	noindex.Metadata[stages.MetaNoindex] = true
	store.Set(noindex.Path, noindex)

	excluded := vfs.New("404.html", nil)
	store.Set(excluded.Path, excluded)

	hidden := vfs.New("_drafts/c/index.html", nil)
	store.Set(hidden.Path, hidden)

	stage := stages.NewSitemapStage(stages.SitemapConfig{})
	require.NoError(t, stage.Process(store, ctx))

	f, ok := store.Get("sitemap.xml")
	require.True(t, ok)
	body := string(f.Contents)
	require.True(t, strings.Contains(body, "https://example.com/blog/a/"))
	require.False(t, strings.Contains(body, "/blog/b/"))
	require.False(t, strings.Contains(body, "404.html"))
	require.False(t, strings.Contains(body, "_drafts"))
}

func TestSitemapStage_SkipsWithoutBaseURL(t *testing.T) {
	store := vfs.NewStore()
	ctx := newTestContext()

	stage := stages.NewSitemapStage(stages.SitemapConfig{})
	require.NoError(t, stage.Process(store, ctx))

	_, ok := store.Get("sitemap.xml")
	require.False(t, ok)
}
