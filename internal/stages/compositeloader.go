package stages

import (
	"fmt"
	"strings"

	"github.com/janos-ssg/janos/internal/vfs"
)

// CompositeLoader merges content loaded from ContentDir (keyed relative to
// that directory) with templates loaded from LayoutsDir (keyed with a
// LayoutsKeyPrefix prefix, default "_layouts"), matching source
// layout: a single store in which layout files are distinguished from
// content purely by key prefix.
type CompositeLoader struct {
	Inner            *FileLoader
	LayoutsDir       string
	LayoutsKeyPrefix string
}

// NewCompositeLoader creates a CompositeLoader with the default
// layouts key prefix ("_layouts").
func NewCompositeLoader(layoutsDir string) *CompositeLoader {
	return &CompositeLoader{Inner: NewFileLoader(), LayoutsDir: layoutsDir, LayoutsKeyPrefix: "_layouts"}
}

// Load walks sourceDir for content and l.LayoutsDir for templates,
// returning one combined Store.
func (l *CompositeLoader) Load(sourceDir string) (*vfs.Store, error) {
	store, err := l.Inner.Load(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("loading content tree: %w", err)
	}
	if l.LayoutsDir == "" {
		return store, nil
	}

	layouts, err := l.Inner.Load(l.LayoutsDir)
	if err != nil {
		return nil, fmt.Errorf("loading layouts tree: %w", err)
	}
	prefix := strings.TrimSuffix(l.LayoutsKeyPrefix, "/")
	for _, f := range layouts.Files() {
		key := prefix + "/" + f.Path
		f.Path = key
		f.SourcePath = key
		store.Set(key, f)
	}
	return store, nil
}
