// Package pipeline implements the Driver: the ordered stage list, the
// registered template engines, and the global metadata, invoked
// sequentially over the shared file store.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/janos-ssg/janos/internal/logfields"
	"github.com/janos-ssg/janos/internal/metrics"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stageerrors"
	"github.com/janos-ssg/janos/internal/vfs"
)

// Stage is a single named transformation over the file store.
type Stage interface {
	Name() string
	Process(store *vfs.Store, ctx *pipelinectx.Context) error
}

// StageFunc adapts a plain function to the Stage interface for stages with
// no internal state worth a dedicated type.
type StageFunc struct {
	StageName string
	Fn        func(store *vfs.Store, ctx *pipelinectx.Context) error
}

func (f StageFunc) Name() string { return f.StageName }
func (f StageFunc) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	return f.Fn(store, ctx)
}

// BuildConfig carries the site metadata required to validate a build plus
// the values the loader needs to populate the file store.
type BuildConfig struct {
	SiteTitle   string
	SiteBaseURL string
	SourceDir   string
	OutputDir   string
	Mode        pipelinectx.Mode
}

// Result is the summary Build() returns: filesProcessed, filesOutput,
// duration, warnings, errors.
type Result struct {
	FilesProcessed int
	FilesOutput    int
	Duration       time.Duration
	Warnings       []*stageerrors.Error
	Errors         []*stageerrors.Error
}

// Driver holds the ordered stage list, registered template engines, and
// global metadata, and invokes stages sequentially over the shared store.
type Driver struct {
	stages []Stage
	ctx    *pipelinectx.Context
	loader Loader
	writer Writer
}

// Loader reads a source tree into a file store.
type Loader interface {
	Load(sourceDir string) (*vfs.Store, error)
}

// Writer emits the final file store to an output directory. Paths under
// the source and layouts trees are not themselves emitted, but by the time
// Build runs the layout stage those keys have already been rewritten to
// output-shaped paths by permalinks, or are layout-prefixed files the
// layout stage never renders as content.
type Writer interface {
	Write(store *vfs.Store, outputDir string) (filesOutput int, err error)
}

// New creates a Driver with a fresh Context (ctx.New()) and the given
// loader/writer collaborators. Use NewWithContext to inject a Context
// built by the config loader (site metadata, cache, logger already set).
func New(loader Loader, writer Writer) *Driver {
	return NewWithContext(pipelinectx.New(), loader, writer)
}

// NewWithContext creates a Driver over an already-populated Context.
func NewWithContext(ctx *pipelinectx.Context, loader Loader, writer Writer) *Driver {
	return &Driver{ctx: ctx, loader: loader, writer: writer}
}

// Use appends stage to the ordered stage list. Returns the Driver so
// calls chain: d.Use(a).Use(b).Use(c).
func (d *Driver) Use(stage Stage) *Driver {
	d.stages = append(d.stages, stage)
	return d
}

// Engine registers a template engine under each of its declared file
// extensions.
func (d *Driver) Engine(engine pipelinectx.TemplateEngine) *Driver {
	for _, ext := range engine.Extensions() {
		d.ctx.TemplateEngines[ext] = engine
	}
	return d
}

// Metadata sets a global-metadata entry, visible to every stage and every
// template rendered downstream.
func (d *Driver) Metadata(key string, value any) *Driver {
	d.ctx.Metadata[key] = value
	return d
}

// Context returns the driver's pipeline Context, for callers (the config
// loader, tests) that need to finish populating it before Build/Process runs.
func (d *Driver) Context() *pipelinectx.Context { return d.ctx }

// storeBinder is implemented by template engines whose virtual loader
// needs the live file store; the config loader constructs engines before
// the source tree exists, so the store is bound here instead.
type storeBinder interface {
	BindStore(store *vfs.Store)
}

// Process runs each registered stage in order against store, passing
// (store, ctx) to each. A stage that returns a non-fatal
// *stageerrors.Error has it logged and collected into the returned
// warnings, and the next stage runs; any other stage failure aborts and is
// reported wrapped with the stage name.
func (d *Driver) Process(ctx context.Context, store *vfs.Store) (*vfs.Store, []*stageerrors.Error, error) {
	for _, engine := range d.ctx.TemplateEngines {
		if b, ok := engine.(storeBinder); ok {
			b.BindStore(store)
		}
	}

	var warnings []*stageerrors.Error
	for _, stage := range d.stages {
		select {
		case <-ctx.Done():
			return store, warnings, stageerrors.Wrap(ctx.Err(), stageerrors.KindPlugin, "build canceled")
		default:
		}

		start := time.Now()
		d.ctx.Debugf("stage starting", logfields.Stage(stage.Name()))
		err := stage.Process(store, d.ctx)
		elapsed := time.Since(start)
		d.ctx.Metric.ObserveStageDuration(stage.Name(), elapsed)

		if err == nil {
			d.ctx.Metric.IncStageResult(stage.Name(), metrics.ResultSuccess)
			continue
		}

		if se, ok := err.(*stageerrors.Error); ok && !se.IsFatal() {
			se.Stage = stage.Name()
			warnings = append(warnings, se)
			d.ctx.Metric.IncStageResult(stage.Name(), metrics.ResultWarning)
			d.ctx.Log.Warn("stage warning", logfields.Stage(stage.Name()), logfields.Error(se))
			continue
		}

		d.ctx.Metric.IncStageResult(stage.Name(), metrics.ResultFatal)
		wrapped := stageerrors.Plugin(stage.Name(), err)
		d.ctx.Log.Error("stage failed", logfields.Stage(stage.Name()), logfields.Error(wrapped))
		return store, warnings, wrapped
	}
	return store, warnings, nil
}

// Build is a thin loader: it reads the source directory, populates a file
// store, invokes Process, and returns a result summary.
func (d *Driver) Build(ctx context.Context, cfg BuildConfig) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	d.ctx.Mode = cfg.Mode
	if d.ctx.BuildID == "" {
		d.ctx.BuildID = uuid.NewString()
	}
	site := d.ctx.Site()
	site.Title = cfg.SiteTitle
	site.BaseURL = cfg.SiteBaseURL
	d.ctx.SetSite(site)
	d.ctx.Metadata[pipelinectx.MetaKeyBuild] = map[string]any{
		"time": d.ctx.Now(),
		"mode": string(cfg.Mode),
	}

	start := time.Now()
	store, err := d.loader.Load(cfg.SourceDir)
	if err != nil {
		return nil, stageerrors.Wrap(err, stageerrors.KindPlugin, "loading source tree")
	}
	filesProcessed := store.Len()

	store, warnings, err := d.Process(ctx, store)
	if err != nil {
		d.ctx.Metric.IncBuildOutcome(metrics.BuildOutcomeFailed)
		return nil, err
	}

	filesOutput := 0
	if d.writer != nil {
		filesOutput, err = d.writer.Write(store, cfg.OutputDir)
		if err != nil {
			d.ctx.Metric.IncBuildOutcome(metrics.BuildOutcomeFailed)
			return nil, stageerrors.Wrap(err, stageerrors.KindPlugin, "writing output")
		}
	}
	d.ctx.Metric.IncFilesOutput(filesOutput)

	outcome := metrics.BuildOutcomeSuccess
	if len(warnings) > 0 {
		outcome = metrics.BuildOutcomeWarning
	}
	d.ctx.Metric.IncBuildOutcome(outcome)
	duration := time.Since(start)
	d.ctx.Metric.ObserveBuildDuration(duration)

	return &Result{
		FilesProcessed: filesProcessed,
		FilesOutput:    filesOutput,
		Duration:       duration,
		Warnings:       warnings,
	}, nil
}

func validate(cfg BuildConfig) error {
	var missing []string
	if cfg.SiteTitle == "" {
		missing = append(missing, "site.title")
	}
	if cfg.SiteBaseURL == "" {
		missing = append(missing, "site.baseUrl")
	}
	if cfg.SourceDir == "" {
		missing = append(missing, "sourceDir")
	}
	if cfg.OutputDir == "" {
		missing = append(missing, "outputDir")
	}
	if len(missing) > 0 {
		return stageerrors.Config(fmt.Sprintf("missing required configuration: %v", missing))
	}
	return nil
}
