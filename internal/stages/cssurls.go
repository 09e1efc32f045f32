package stages

import (
	"strings"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// CSSURLRewriteStage rewrites absolute url(/...) references in CSS files
// to account for a non-root site.rootpath.
type CSSURLRewriteStage struct {
	Pattern []string
}

// NewCSSURLRewriteStage creates a CSSURLRewriteStage with the default pattern.
func NewCSSURLRewriteStage() *CSSURLRewriteStage {
	return &CSSURLRewriteStage{Pattern: []string{"**/*.css"}}
}

func (s *CSSURLRewriteStage) Name() string { return "css-urls" }

func (s *CSSURLRewriteStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	root := ctx.Site().RootPath
	if root == "" || root == "/" {
		return nil
	}

	replacement := "url(" + strings.TrimSuffix(root, "/") + "/"
	for _, f := range store.Files() {
		if !glob.MatchAny(s.Pattern, f.Path) {
			continue
		}
		f.Contents = []byte(strings.ReplaceAll(string(f.Contents), "url(/", replacement))
	}
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}
