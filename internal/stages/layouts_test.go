package stages_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stages"
	"github.com/janos-ssg/janos/internal/templateengine"
	"github.com/janos-ssg/janos/internal/vfs"
	"github.com/stretchr/testify/require"
)

func TestLayoutsStage_RendersAndChains(t *testing.T) {
	store := vfs.NewStore()
	store.Set("_layouts/base.html", vfs.New("_layouts/base.html", []byte(`<html><body>{{ .content }}</body></html>`)))
	baseLayout, _ := store.Get("_layouts/base.html")
	_ = baseLayout

	single := vfs.New("_layouts/single.html", []byte(`<article>{{ .Title }}: {{ .content }}</article>`))
	single.Metadata["layout"] = "base.html"
	store.Set(single.Path, single)

	page := vfs.New("blog/post/index.html", []byte("body text"))
	page.Metadata["layout"] = "single.html"
	page.Metadata["Title"] = "Hello"
	store.Set(page.Path, page)

	ctx := newTestContext()
	loader := templateengine.NewVirtualLoader(store, "_layouts")
	engine := templateengine.New(loader, "html")
	ctx.TemplateEngines["html"] = engine

	stage := stages.NewLayoutsStage(stages.LayoutsConfig{})
	require.NoError(t, stage.Process(store, ctx))

	require.Equal(t, `<html><body><article>Hello: body text</article></body></html>`, string(page.Contents))
}

func TestLayoutsStage_MissingLayoutKeepsPriorBody(t *testing.T) {
	store := vfs.NewStore()
	page := vfs.New("blog/post/index.html", []byte("body text"))
	page.Metadata["layout"] = "missing.html"
	store.Set(page.Path, page)

	ctx := newTestContext()
	stage := stages.NewLayoutsStage(stages.LayoutsConfig{})
	require.NoError(t, stage.Process(store, ctx))

	require.Equal(t, "body text", string(page.Contents))
}

var _ pipelinectx.TemplateEngine = (*templateengine.Engine)(nil)
