package templateengine

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// Engine is a text/template-backed TemplateEngine. text/template rather
// than html/template: layout composition here splices already-rendered
// HTML content (markdown output, partial renders) back into a parent
// template, which html/template's contextual auto-escaping would mangle on
// every include/content substitution. It supports:
//   - include(name, data): renders a named partial resolved through the
//     virtual loader, inline within the calling template.
//   - layout chaining: the layout stage (not this package) is responsible
//     for walking a file's layout -> layout's own layout chain and calling
//     RenderFile/Render once per link, passing the previous rendering in
//     as data["content"] — an 11ty-style inheritance model, since the
//     specific template syntax is left to the rendering collaborator.
type Engine struct {
	loader  *VirtualLoader
	exts    []string
	filters map[string]pipelinectx.TemplateFilter
}

// New creates an Engine serving the given extensions (no leading dot),
// e.g. New(loader, "html", "njk").
func New(loader *VirtualLoader, extensions ...string) *Engine {
	return &Engine{loader: loader, exts: extensions, filters: map[string]pipelinectx.TemplateFilter{}}
}

func (e *Engine) Extensions() []string { return e.exts }

// BindStore points the engine's virtual loader at the live file store.
// The config loader registers engines before the source tree is loaded;
// the driver calls BindStore once the store exists, before any stage runs.
func (e *Engine) BindStore(store *vfs.Store) { e.loader.Store = store }

func (e *Engine) RegisterFilter(name string, fn pipelinectx.TemplateFilter) {
	e.filters[name] = fn
}

// Render parses and executes a template body string against data.
func (e *Engine) Render(body string, data map[string]any) (string, error) {
	engineMu.Lock()
	tmpl, err := template.New("body").Funcs(e.funcMap()).Parse(body)
	engineMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// RenderFile resolves name through the virtual loader, then renders it.
func (e *Engine) RenderFile(name string, data map[string]any) (string, error) {
	body, err := e.loader.Resolve(name)
	if err != nil {
		return "", err
	}
	return e.Render(body, data)
}

func (e *Engine) funcMap() template.FuncMap {
	fm := template.FuncMap{
		"include": func(name string, data map[string]any) (string, error) {
			return e.RenderFile(name, data)
		},
	}
	for name, fn := range e.filters {
		fn := fn
		fm[name] = func(value any, args ...any) (any, error) { return fn(value, args...) }
	}
	return fm
}
