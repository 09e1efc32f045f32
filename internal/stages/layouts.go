package stages

import (
	"strings"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/logfields"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// LayoutsConfig configures the final render stage.
type LayoutsConfig struct {
	Directory     string
	DefaultLayout string
	Match         []string
	Extensions    []string
}

// LayoutsStage renders each matching content file through its resolved
// layout chain, replacing its contents with the rendered bytes.
type LayoutsStage struct {
	Cfg LayoutsConfig
}

// NewLayoutsStage creates a LayoutsStage with the defaults.
func NewLayoutsStage(cfg LayoutsConfig) *LayoutsStage {
	if cfg.Directory == "" {
		cfg.Directory = "_layouts"
	}
	if len(cfg.Match) == 0 {
		cfg.Match = []string{"**/*.html"}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".njk", ".nunjucks", ".html"}
	}
	return &LayoutsStage{Cfg: cfg}
}

func (s *LayoutsStage) Name() string { return "layouts" }

// Process implements: resolve each file's layout (trying the layout
// chain name verbatim and with the configured suffixes), render it through
// whichever registered TemplateEngine claims the resolved extension,
// merging global metadata, file metadata, and the reserved context keys,
// then follow the rendered layout's own `layout` metadata (if the layout
// file itself declares one) until the chain bottoms out.
func (s *LayoutsStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	for _, f := range store.Files() {
		if strings.HasPrefix(f.Path, s.Cfg.Directory+"/") {
			continue
		}
		if !glob.MatchAny(s.Cfg.Match, f.Path) {
			continue
		}

		layoutName := GetString(f.Metadata, MetaLayout)
		if layoutName == "" {
			layoutName = s.Cfg.DefaultLayout
		}
		if layoutName == "" {
			continue
		}

		rendered, err := s.render(store, ctx, f, layoutName)
		if err != nil {
			ctx.Log.Warn("layout render failed, keeping pre-render body",
				logfields.Path(f.Path), logfields.Layout(layoutName), logfields.Error(err))
			continue
		}
		f.Contents = []byte(rendered)
	}
	return nil
}

func (s *LayoutsStage) render(store *vfs.Store, ctx *pipelinectx.Context, f *vfs.File, layoutName string) (string, error) {
	content := string(f.Contents)
	visited := map[string]bool{}

	for layoutName != "" {
		if visited[layoutName] {
			return "", errCyclicLayout(layoutName)
		}
		visited[layoutName] = true

		key, ok := s.resolveLayoutKey(store, layoutName)
		if !ok {
			return "", errLayoutNotFound(layoutName)
		}
		layoutFile, _ := store.Get(key)

		engine := s.engineFor(ctx, key)
		if engine == nil {
			return "", errEngineNotFound(key)
		}

		data := s.buildContext(ctx, f, content)
		out, err := engine.Render(string(layoutFile.Contents), data)
		if err != nil {
			return "", err
		}
		content = out

		layoutName = GetString(layoutFile.Metadata, MetaLayout)
	}
	return content, nil
}

func (s *LayoutsStage) resolveLayoutKey(store *vfs.Store, name string) (string, bool) {
	candidates := []string{name}
	for _, ext := range s.Cfg.Extensions {
		candidates = append(candidates, name+ext)
	}
	for _, candidate := range candidates {
		key := s.Cfg.Directory + "/" + candidate
		if _, ok := store.Get(key); ok {
			return key, true
		}
		if _, ok := store.Get(candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

func (s *LayoutsStage) engineFor(ctx *pipelinectx.Context, key string) pipelinectx.TemplateEngine {
	idx := strings.LastIndexByte(key, '.')
	if idx < 0 {
		return nil
	}
	ext := strings.TrimPrefix(key[idx:], ".")
	return ctx.TemplateEngines[ext]
}

// buildContext implements: "Template data" merge: global metadata,
// file metadata (overrides global), reserved contents/content/page/site/now
// keys, plus site_<key> flattening for primitive site fields.
func (s *LayoutsStage) buildContext(ctx *pipelinectx.Context, f *vfs.File, content string) map[string]any {
	data := map[string]any{}
	for k, v := range ctx.Metadata {
		data[k] = v
	}
	for k, v := range f.Metadata {
		data[k] = v
	}

	site := ctx.Site()
	data["site"] = site
	data["site_title"] = site.Title
	data["site_baseUrl"] = site.BaseURL
	data["site_description"] = site.Description
	data["site_language"] = site.Language
	data["site_rootpath"] = site.RootPath

	data["contents"] = content
	data["content"] = content
	data["page"] = f.Metadata
	data["now"] = ctx.Now()
	return data
}

type layoutError struct{ msg string }

func (e layoutError) Error() string { return e.msg }

func errLayoutNotFound(name string) error { return layoutError{"layout not found: " + name} }
func errEngineNotFound(key string) error  { return layoutError{"no template engine registered for: " + key} }
func errCyclicLayout(name string) error   { return layoutError{"cyclic layout chain at: " + name} }
