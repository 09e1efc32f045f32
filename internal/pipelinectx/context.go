// Package pipelinectx defines the shared, mutable context threaded through
// every pipeline stage: site configuration, cross-stage global metadata,
// registered template engines, the webmention cache, and the logger.
package pipelinectx

import (
	"log/slog"
	"time"

	"github.com/janos-ssg/janos/internal/metrics"
)

// Mode selects development- or production-flavored stage behavior (the
// publish stage's draft/future-date filtering, debug-level logging, ...).
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Author is the site.author value, which the config accepts as either a
// bare string or an object with name/email/url.
type Author struct {
	Name  string
	Email string
	URL   string
}

// Site is the site section of GlobalMetadata: the values every stage and
// template can reach under the "site" key.
type Site struct {
	Title       string
	BaseURL     string
	Description string
	Language    string
	Author      Author
	RootPath    string
}

// Well-known top-level keys in Context.Metadata, set by aggregator stages.
const (
	MetaKeySite        = "site"
	MetaKeyBuild       = "build"
	MetaKeyCollections = "collections"
	MetaKeyAllTags     = "allTags"
	MetaKeyTags        = "tags"
	MetaKeyTagCloud    = "tagCloud"
	MetaKeyTagPages    = "tagPages"
)

// Cache is the abstract read/write collaborator backing per-file caches
// (webmentions). Implementations must tolerate concurrent reads of
// distinct keys; writes to the same key are serialized by the caller.
type Cache interface {
	Read(key string) ([]byte, bool, error)
	Write(key string, data []byte) error
}

// TemplateEngine is the layout stage's abstract rendering collaborator.
type TemplateEngine interface {
	// Extensions lists the file extensions this engine handles (without the
	// leading dot), e.g. "njk", "html".
	Extensions() []string
	Render(template string, data map[string]any) (string, error)
	RenderFile(name string, data map[string]any) (string, error)
	RegisterFilter(name string, fn TemplateFilter)
}

// TemplateFilter is a user or built-in template filter function.
type TemplateFilter func(value any, args ...any) (any, error)

// Context is the record threaded as the second argument to every stage:
// a typed record with fixed top-level keys, rather than an untyped bag.
type Context struct {
	// Metadata is the GlobalMetadata map: site, build, collections,
	// allTags, tagCloud, plus arbitrary user keys set via Driver.Metadata.
	Metadata map[string]any

	// TemplateEngines maps a file extension (no leading dot) to the engine
	// registered for it via Driver.Engine.
	TemplateEngines map[string]TemplateEngine

	Cache  Cache
	Log    *slog.Logger
	Mode   Mode
	Metric metrics.Recorder

	// BuildID is a per-Build() correlation ID, assigned by the driver when
	// empty. No log line or synthesized file carries it.
	BuildID string

	// Now is consulted instead of time.Now() directly so stages (publish's
	// future-date filter, the layout engine's "now" template key) are
	// deterministic under test.
	Now func() time.Time
}

// New creates a Context with empty metadata and a no-op recorder; callers
// typically override Log, Metric, and Now before use.
func New() *Context {
	return &Context{
		Metadata:        map[string]any{},
		TemplateEngines: map[string]TemplateEngine{},
		Cache:           nil,
		Log:             slog.Default(),
		Mode:            ModeDevelopment,
		Metric:          metrics.NoopRecorder{},
		Now:             time.Now,
	}
}

// Site returns the site section of Metadata, or a zero Site if unset or
// of the wrong type.
func (c *Context) Site() Site {
	v, _ := c.Metadata[MetaKeySite].(Site)
	return v
}

// SetSite installs the site section of Metadata.
func (c *Context) SetSite(s Site) {
	c.Metadata[MetaKeySite] = s
}

// Collections returns the collections map, or nil if none have been built yet.
func (c *Context) Collections() map[string][]CollectionItem {
	v, _ := c.Metadata[MetaKeyCollections].(map[string][]CollectionItem)
	return v
}

// SetCollections installs the collections map, mirroring each collection
// additionally as a top-level metadata key ("navigation" reachable
// as both collections.navigation and navigation).
func (c *Context) SetCollections(collections map[string][]CollectionItem) {
	c.Metadata[MetaKeyCollections] = collections
	for name, items := range collections {
		c.Metadata[name] = items
	}
}

// CollectionItem is a shallow clone of a file's metadata plus path and a
// decoded contents snapshot.
type CollectionItem struct {
	Path       string
	SourcePath string
	Contents   string
	Metadata   map[string]any
}

// Debugf logs a debug-level message, suppressed outside development mode
// Logger contract.
func (c *Context) Debugf(msg string, args ...any) {
	if c.Mode != ModeDevelopment {
		return
	}
	c.Log.Debug(msg, args...)
}
