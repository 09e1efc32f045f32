package config

import (
	"log/slog"

	"github.com/janos-ssg/janos/internal/pipeline"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stages"
	"github.com/janos-ssg/janos/internal/templateengine"
	"github.com/janos-ssg/janos/internal/webmentionclient"
)

// BuildOptions carries the collaborators the loader needs beyond the
// config document itself: a logger and a webmention cache directory.
type BuildOptions struct {
	Log      *slog.Logger
	CacheDir string
	Registry *Registry
}

// Build constructs a ready-to-Process pipeline.Driver from doc: it wires
// the composite loader/writer, registers the built-in template engine
// under html/njk/nunjucks, seeds global metadata, and instantiates every
// configured stage from the registry in order.
func Build(doc *Document, opts BuildOptions) (*pipeline.Driver, error) {
	mode := doc.ModeOrDefault()
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry(mode)
	}

	ctx := pipelinectx.New()
	if opts.Log != nil {
		ctx.Log = opts.Log
	}
	ctx.Mode = mode
	ctx.SetSite(doc.Site.ToSite())
	for k, v := range doc.Metadata {
		ctx.Metadata[k] = v
	}
	if opts.CacheDir != "" {
		ctx.Cache = webmentionclient.NewFileCache(opts.CacheDir)
	}

	loader := stages.NewCompositeLoader(doc.Site.LayoutsDirOrDefault())
	writer := stages.NewFileWriter("_layouts")

	driver := pipeline.NewWithContext(ctx, loader, writer)

	vloader := templateengine.NewVirtualLoader(nil, doc.Site.LayoutsDirOrDefault())
	engine := templateengine.New(vloader, "html", "njk", "nunjucks")
	templateengine.RegisterBuiltinFilters(engine)
	driver.Engine(engine)

	for _, entry := range doc.Pipeline {
		stage, err := registry.Build(entry)
		if err != nil {
			return nil, err
		}
		driver.Use(stage)
	}

	return driver, nil
}
