package stages

import (
	"strings"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// ExcerptsStage extracts the text before a marker comment into
// metadata.excerpt and removes the marker from the body.
type ExcerptsStage struct {
	Pattern []string
	Marker  string
	// TrimExcerpt trims the extracted excerpt (default true).
	TrimExcerpt bool
	// RemoveMarker removes the marker from the body (default true).
	RemoveMarker bool
}

// NewExcerptsStage creates an ExcerptsStage with the defaults.
func NewExcerptsStage() *ExcerptsStage {
	return &ExcerptsStage{
		Pattern:      []string{"**/*.html"},
		Marker:       "<!-- more -->",
		TrimExcerpt:  true,
		RemoveMarker: true,
	}
}

func (s *ExcerptsStage) Name() string { return "excerpts" }

func (s *ExcerptsStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	for _, f := range store.Files() {
		if !glob.MatchAny(s.Pattern, f.Path) {
			continue
		}
		body := string(f.Contents)
		idx := strings.Index(body, s.Marker)
		if idx < 0 {
			continue
		}

		excerpt := body[:idx]
		if s.TrimExcerpt {
			excerpt = strings.TrimSpace(excerpt)
		}
		f.Metadata[MetaExcerpt] = excerpt

		if s.RemoveMarker {
			f.Contents = []byte(body[:idx] + body[idx+len(s.Marker):])
		}
	}
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}
