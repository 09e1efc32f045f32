package stages_test

import (
	"strings"
	"testing"
	"time"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stages"
	"github.com/janos-ssg/janos/internal/vfs"
	"github.com/stretchr/testify/require"
)

func TestFeedsStage_EmitsRSSWithLayoutFalse(t *testing.T) {
	store := vfs.NewStore()
	ctx := newTestContext()
	ctx.SetSite(pipelinectx.Site{Title: "Example", BaseURL: "https://example.com"})
	ctx.SetCollections(map[string][]pipelinectx.CollectionItem{
		"posts": {
			{Path: "blog/a/index.html", Metadata: map[string]any{
				stages.MetaTitle: "A", stages.MetaDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
				stages.MetaExcerpt: "summary a", stages.MetaPermalink: "/blog/a/",
			}},
			{Path: "blog/b/index.html", Metadata: map[string]any{
				stages.MetaTitle: "B", stages.MetaDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				stages.MetaExcerpt: "summary b", stages.MetaPermalink: "/blog/b/",
			}},
		},
	})

	stage := stages.NewFeedsStage(stages.FeedConfig{})
	require.NoError(t, stage.Process(store, ctx))

	f, ok := store.Get("rss.xml")
	require.True(t, ok)
	require.Equal(t, false, f.Metadata[stages.MetaLayout])

	body := string(f.Contents)
	require.True(t, strings.Contains(body, "<rss"))
	require.True(t, strings.Contains(body, "https://example.com/blog/b/"))
	require.True(t, strings.Index(body, "summary b") < strings.Index(body, "summary a"))
}

func TestFeedsStage_DoesNotReorderSharedCollectionSlice(t *testing.T) {
	store := vfs.NewStore()
	ctx := newTestContext()
	ctx.SetSite(pipelinectx.Site{Title: "Example", BaseURL: "https://example.com"})
	posts := []pipelinectx.CollectionItem{
		{Path: "blog/a/index.html", Metadata: map[string]any{
			stages.MetaTitle: "A", stages.MetaDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		}},
		{Path: "blog/b/index.html", Metadata: map[string]any{
			stages.MetaTitle: "B", stages.MetaDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		}},
	}
	ctx.SetCollections(map[string][]pipelinectx.CollectionItem{"posts": posts})

	stage := stages.NewFeedsStage(stages.FeedConfig{Collection: "posts"})
	require.NoError(t, stage.Process(store, ctx))

	// The collection as held by shared context must retain its original,
	// sortBy-derived order; the feed's own date-desc sort must not leak
	// back into the aggregator's backing array.
	require.Equal(t, "blog/a/index.html", ctx.Collections()["posts"][0].Path)
	require.Equal(t, "blog/b/index.html", ctx.Collections()["posts"][1].Path)
}

func TestFeedsStage_FullContentIsWrappedInCDATA(t *testing.T) {
	store := vfs.NewStore()
	ctx := newTestContext()
	ctx.SetSite(pipelinectx.Site{Title: "Example", BaseURL: "https://example.com"})
	ctx.SetCollections(map[string][]pipelinectx.CollectionItem{
		"posts": {
			{Path: "blog/a/index.html", Metadata: map[string]any{
				stages.MetaTitle: "A", stages.MetaDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
				"contents": "<p>raw & unescaped</p>",
			}},
		},
	})

	stage := stages.NewFeedsStage(stages.FeedConfig{FullContent: true})
	require.NoError(t, stage.Process(store, ctx))

	f, ok := store.Get("rss.xml")
	require.True(t, ok)
	body := string(f.Contents)
	require.True(t, strings.Contains(body, "<content:encoded>"))
	require.True(t, strings.Contains(body, "<![CDATA[<p>raw & unescaped</p>]]>"))
}

func TestFeedsStage_SkipsWithoutBaseURL(t *testing.T) {
	store := vfs.NewStore()
	ctx := newTestContext()
	ctx.SetSite(pipelinectx.Site{})

	stage := stages.NewFeedsStage(stages.FeedConfig{})
	require.NoError(t, stage.Process(store, ctx))

	_, ok := store.Get("rss.xml")
	require.False(t, ok)
}
