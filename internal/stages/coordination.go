package stages

import (
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// CoordinationStage reconciles collection-item paths with file keys
// rewritten by path-altering stages (permalinks, pagination, tag-pages).
// Implemented as an explicit, named stage/instruction — never
// folded into the permalinks stage.
type CoordinationStage struct{}

// NewCoordinationStage creates a CoordinationStage.
func NewCoordinationStage() *CoordinationStage { return &CoordinationStage{} }

func (s *CoordinationStage) Name() string { return "coordination" }

func (s *CoordinationStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	collections := ctx.Collections()
	if collections == nil {
		return nil
	}

	bySource := make(map[string]*vfs.File)
	for _, f := range store.Files() {
		if f.SourcePath != "" {
			bySource[f.SourcePath] = f
		}
		bySource[f.Path] = f
	}

	for name, items := range collections {
		for i := range items {
			item := &items[i]
			if navpath := GetString(item.Metadata, MetaNavpath); navpath != "" {
				continue
			}
			key := item.SourcePath
			if key == "" {
				key = item.Path
			}
			f, ok := bySource[key]
			if !ok {
				continue
			}
			item.Path = f.Path
			if pl := GetString(f.Metadata, MetaPermalink); pl != "" {
				item.Metadata[MetaPermalink] = pl
			}
		}
		collections[name] = items
	}

	ctx.SetCollections(collections)
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}
