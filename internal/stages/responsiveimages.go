package stages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/imagecodec"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// ResponsiveImagesConfig configures the picture-element generation.
type ResponsiveImagesConfig struct {
	// Formats are tried most-modern first (default avif, webp, jpg).
	Formats   []string
	Sizes     []int
	Quality   int
	Dir       string
	SizesAttr string
	Match     []string
}

// ResponsiveImagesStage transforms Markdown image references into
// <picture> elements with generated format/width variants.
type ResponsiveImagesStage struct {
	Cfg   ResponsiveImagesConfig
	Codec imagecodec.Codec
}

// NewResponsiveImagesStage creates a ResponsiveImagesStage with the defaults.
func NewResponsiveImagesStage(codec imagecodec.Codec, cfg ResponsiveImagesConfig) *ResponsiveImagesStage {
	if len(cfg.Formats) == 0 {
		cfg.Formats = []string{"avif", "webp", "jpg"}
	}
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = []int{480, 800, 1200}
	}
	if cfg.Quality <= 0 {
		cfg.Quality = 80
	}
	if cfg.Dir == "" {
		cfg.Dir = "_images"
	}
	if len(cfg.Match) == 0 {
		cfg.Match = []string{"**/*.md", "**/*.html"}
	}
	return &ResponsiveImagesStage{Cfg: cfg, Codec: codec}
}

func (s *ResponsiveImagesStage) Name() string { return "responsive-images" }

var markdownImageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^\s)]+)(?:\s+"([^"]*)")?\)`)

func (s *ResponsiveImagesStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	cache := map[string]string{}

	for _, f := range store.Files() {
		if !glob.MatchAny(s.Cfg.Match, f.Path) {
			continue
		}
		body := string(f.Contents)
		newBody := markdownImageRe.ReplaceAllStringFunc(body, func(m string) string {
			sub := markdownImageRe.FindStringSubmatch(m)
			alt, ref := sub[1], sub[2]
			if isExternalRef(ref) {
				return m
			}
			if cached, ok := cache[ref]; ok {
				return cached
			}
			html := s.render(store, f.Path, ref, alt)
			cache[ref] = html
			return html
		})
		if newBody != body {
			f.Contents = []byte(newBody)
		}
	}

	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}

func (s *ResponsiveImagesStage) render(store *vfs.Store, fromPath, ref, alt string) string {
	target, ok := resolveRef(ref, fromPath)
	if !ok {
		return fmt.Sprintf(`![%s](%s)`, alt, ref)
	}
	src, ok := store.Get(target)
	if !ok {
		return fmt.Sprintf(`![%s](%s)`, alt, ref)
	}
	if s.Codec == nil || !s.Codec.IsSupported(src.Contents) {
		return fmt.Sprintf(`<picture><img src="/%s" alt="%s" loading="lazy" decoding="async"></picture>`, target, alt)
	}

	var sourceTags []string
	for _, format := range s.Cfg.Formats {
		var srcset []string
		for _, width := range s.Cfg.Sizes {
			res, err := s.Codec.Process(context.Background(), src.Contents, imagecodec.Options{
				Format: format, Width: width, Quality: s.Cfg.Quality,
			})
			if err != nil {
				continue
			}
			name := fmt.Sprintf("%s-%dw.%s", Basename(target), width, format)
			genKey := s.Cfg.Dir + "/" + name
			gf := vfs.New(genKey, res.Data)
			store.Set(genKey, gf)
			srcset = append(srcset, fmt.Sprintf("/%s %dw", genKey, width))
		}
		if len(srcset) == 0 {
			continue
		}
		sourceTags = append(sourceTags, fmt.Sprintf(`<source type="image/%s" srcset="%s">`, format, strings.Join(srcset, ", ")))
	}

	sizesAttr := ""
	if s.Cfg.SizesAttr != "" {
		sizesAttr = fmt.Sprintf(` sizes="%s"`, s.Cfg.SizesAttr)
	}
	return fmt.Sprintf(`<picture>%s<img src="/%s" alt="%s"%s loading="lazy" decoding="async"></picture>`,
		strings.Join(sourceTags, ""), target, alt, sizesAttr)
}
