// Package templateengine implements the layout engine's template-rendering
// collaborator: a text/template-backed engine with a virtual
// loader that resolves include/extends names against the file store's
// layouts directory, rather than the filesystem directly.
//
// The specific template-engine syntax is left open by design — this is one
// concrete, abstract-collaborator-conformant implementation built on Go's
// own text/template, given the block/extends/include surface layout
// rendering requires. text/template rather than html/template because the
// data substituted in is already-rendered HTML (markdown output, nested
// layout renderings) that auto-escaping would corrupt.
package templateengine

import (
	"fmt"
	"sync"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// VirtualLoader resolves layout/partial names against the file store's
// layouts directory, instead of reading from the real filesystem.
type VirtualLoader struct {
	Store   *vfs.Store
	BaseDir string
}

// NewVirtualLoader creates a VirtualLoader rooted at baseDir (default
// "_layouts"). Store may be nil at construction time — the config loader
// registers engines before the source tree is loaded; the driver binds
// the live store via Engine.BindStore once it exists, before any stage runs.
func NewVirtualLoader(store *vfs.Store, baseDir string) *VirtualLoader {
	if baseDir == "" {
		baseDir = "_layouts"
	}
	return &VirtualLoader{Store: store, BaseDir: baseDir}
}

// Resolve returns the raw contents of a layout/partial by name, trying the
// name as given and then underneath BaseDir.
func (l *VirtualLoader) Resolve(name string) (string, error) {
	if f, ok := l.Store.Get(name); ok {
		return string(f.Contents), nil
	}
	candidate := l.BaseDir + "/" + name
	if f, ok := l.Store.Get(candidate); ok {
		return string(f.Contents), nil
	}
	return "", fmt.Errorf("layout %q not found", name)
}

var _ pipelinectx.TemplateEngine = (*Engine)(nil)

// engineMu serializes template construction (filter map assembly and
// parsing). Render builds a fresh template per call and caches nothing;
// execution runs outside the lock, so include can re-enter Render.
var engineMu sync.Mutex
