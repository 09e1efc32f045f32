package stages

import (
	"strings"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// AssetMapping is one {source, destination} pair.
type AssetMapping struct {
	Source      string
	Destination string
}

// AssetsStage copies every file under each mapping's source prefix to the
// destination prefix, leaving the original file in place.
type AssetsStage struct {
	Mappings []AssetMapping
}

// NewAssetsStage creates an AssetsStage.
func NewAssetsStage(mappings ...AssetMapping) *AssetsStage {
	return &AssetsStage{Mappings: mappings}
}

func (s *AssetsStage) Name() string { return "assets" }

func (s *AssetsStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	for _, m := range s.Mappings {
		source := strings.Trim(m.Source, "/")
		destination := strings.Trim(m.Destination, "/")

		for _, f := range store.Files() {
			if f.Path != source && !strings.HasPrefix(f.Path, source+"/") {
				continue
			}
			rel := strings.TrimPrefix(f.Path, source)
			rel = strings.TrimPrefix(rel, "/")

			newKey := destination
			if rel != "" {
				newKey = destination + "/" + rel
			}
			copied := f.Clone()
			copied.Path = newKey
			copied.SourcePath = f.Path
			store.Set(newKey, copied)
		}
	}
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}
