package stages

import (
	"strings"

	"github.com/janos-ssg/janos/internal/frontmatter"
	"github.com/janos-ssg/janos/internal/logfields"
	"github.com/janos-ssg/janos/internal/markdown"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// ConvertStage splits frontmatter, attaches its fields to file metadata,
// and converts the Markdown body to HTML, re-keying .md/.markdown inputs
// to .html.
type ConvertStage struct {
	// Extensions maps a recognized input extension (with leading dot) to
	// the output extension it is rewritten to. Defaults to
	// {".md": ".html", ".markdown": ".html"}.
	Extensions   map[string]string
	MarkdownOpts markdown.Options
}

// NewConvertStage creates a ConvertStage with the default extension mapping.
func NewConvertStage() *ConvertStage {
	return &ConvertStage{
		Extensions:   map[string]string{".md": ".html", ".markdown": ".html"},
		MarkdownOpts: markdown.DefaultOptions(),
	}
}

func (s *ConvertStage) Name() string { return "markdown" }

func (s *ConvertStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	var rewrites []struct{ oldKey, newKey string }

	for _, f := range store.Files() {
		outExt, ok := s.matchExtension(f.Path)
		if !ok {
			continue
		}

		fm, body, had, style, err := frontmatter.Split(f.Contents)
		if err != nil {
			ctx.Log.Warn("frontmatter split failed", logfields.Path(f.Path), logfields.Error(err))
			ctx.Metric.IncIssue("frontmatter", s.Name(), "warning")
			continue
		}
		_ = style

		if had {
			fields, err := frontmatter.ParseYAML(fm)
			if err != nil {
				ctx.Log.Warn("frontmatter parse failed", logfields.Path(f.Path), logfields.Error(err))
				ctx.Metric.IncIssue("frontmatter", s.Name(), "warning")
				continue
			} else {
				for k, v := range fields {
					f.Metadata[k] = v
				}
			}
		}

		rendered, err := markdown.Convert(body, s.MarkdownOpts)
		if err != nil {
			ctx.Log.Error("markdown conversion failed", logfields.Path(f.Path), logfields.Error(err))
			ctx.Metric.IncIssue("markdown", s.Name(), "error")
			continue
		}
		f.Contents = []byte(rendered)

		newKey := StripExtension(f.Path) + outExt
		if newKey != f.Path {
			rewrites = append(rewrites, struct{ oldKey, newKey string }{f.Path, newKey})
		}
	}

	for _, r := range rewrites {
		if f, ok := store.Get(r.oldKey); ok {
			store.Delete(r.oldKey)
			f.Path = r.newKey
			store.Set(r.newKey, f)
		}
	}

	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}

func (s *ConvertStage) matchExtension(path string) (string, bool) {
	for inExt, outExt := range s.Extensions {
		if strings.HasSuffix(path, inExt) {
			return outExt, true
		}
	}
	return "", false
}
