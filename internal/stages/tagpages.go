package stages

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// TagPageSummary is one entry of global metadata's "tagPages" list.
type TagPageSummary struct {
	Name  string
	Slug  string
	Count int
}

// TagPagesConfig configures the per-tag listing pages.
type TagPagesConfig struct {
	PathPattern  string
	TitlePattern string
	PerPage      int
	SortBy       string
	Reverse      bool
	Layout       string
	PageMetadata map[string]any
}

// TagPagesStage emits one (or, if paginated, several) listing file per
// unique tag encountered across the file store.
type TagPagesStage struct {
	Cfg TagPagesConfig
}

// NewTagPagesStage creates a TagPagesStage with the default path pattern.
func NewTagPagesStage(cfg TagPagesConfig) *TagPagesStage {
	if cfg.PathPattern == "" {
		cfg.PathPattern = "topics/:tag/index.html"
	}
	if cfg.TitlePattern == "" {
		cfg.TitlePattern = ":tag"
	}
	if cfg.SortBy == "" {
		cfg.SortBy = MetaDate
	}
	return &TagPagesStage{Cfg: cfg}
}

func (s *TagPagesStage) Name() string { return "tag-pages" }

func (s *TagPagesStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	byTag := map[string][]pipelinectx.CollectionItem{}
	tagOf := map[string]Tag{}

	for _, f := range store.Files() {
		tags, _ := f.Metadata[MetaTags].([]Tag)
		for _, t := range tags {
			tagOf[t.Slug] = t
			byTag[t.Slug] = append(byTag[t.Slug], pipelinectx.CollectionItem{
				Path:       f.Path,
				SourcePath: f.SourcePath,
				Contents:   string(f.Contents),
				Metadata:   vfs.CloneMetadata(f.Metadata),
			})
		}
	}

	slugs := make([]string, 0, len(byTag))
	for tagSlug := range byTag {
		slugs = append(slugs, tagSlug)
	}
	sort.Strings(slugs)

	var summaries []TagPageSummary
	for _, tagSlug := range slugs {
		tag := tagOf[tagSlug]
		items := byTag[tagSlug]
		sort.SliceStable(items, func(i, j int) bool {
			c := compareSortValues(items[i].Metadata[s.Cfg.SortBy], items[j].Metadata[s.Cfg.SortBy])
			if s.Cfg.Reverse {
				return c > 0
			}
			return c < 0
		})
		summaries = append(summaries, TagPageSummary{Name: tag.Name, Slug: tag.Slug, Count: len(items)})
		s.emit(store, tag, items)
	}

	ctx.Metadata[pipelinectx.MetaKeyTagPages] = summaries
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}

func (s *TagPagesStage) emit(store *vfs.Store, tag Tag, items []pipelinectx.CollectionItem) {
	base := strings.ReplaceAll(s.Cfg.PathPattern, ":tag", tag.Slug)
	title := strings.ReplaceAll(s.Cfg.TitlePattern, ":tag", tag.Name)

	perPage := s.Cfg.PerPage
	if perPage <= 0 {
		f := vfs.New(NormalizeKey(base), []byte{})
		f.Metadata = map[string]any{
			MetaTitle: title,
			MetaPagination: PaginationData{
				Files:   items,
				Pages:   []PageRef{{Num: 1, Path: base}},
				Current: 1,
				Total:   1,
			},
		}
		if s.Cfg.Layout != "" {
			f.Metadata[MetaLayout] = s.Cfg.Layout
		}
		for k, v := range s.Cfg.PageMetadata {
			f.Metadata[k] = v
		}
		store.Set(f.Path, f)
		return
	}

	total := int(math.Ceil(float64(len(items)) / float64(perPage)))
	pages := make([]PageRef, total)
	for i := 0; i < total; i++ {
		if i == 0 {
			pages[i] = PageRef{Num: 1, Path: base}
			continue
		}
		num := i + 1
		if strings.Contains(s.Cfg.PathPattern, ":num") {
			pages[i] = PageRef{Num: num, Path: strings.ReplaceAll(base, ":num", strconv.Itoa(num))}
		} else {
			pages[i] = PageRef{Num: num, Path: Directory(base) + "/page/" + strconv.Itoa(num) + "/index.html"}
		}
	}

	for i := 0; i < total; i++ {
		start := i * perPage
		end := start + perPage
		if end > len(items) {
			end = len(items)
		}
		var next, previous *PageRef
		if i+1 < total {
			p := pages[i+1]
			next = &p
		}
		if i > 0 {
			p := pages[i-1]
			previous = &p
		}

		f := vfs.New(NormalizeKey(pages[i].Path), []byte{})
		f.Metadata = map[string]any{
			MetaTitle: title,
			MetaPagination: PaginationData{
				Files:    items[start:end],
				Pages:    pages,
				Current:  pages[i].Num,
				Total:    total,
				Next:     next,
				Previous: previous,
			},
		}
		if s.Cfg.Layout != "" {
			f.Metadata[MetaLayout] = s.Cfg.Layout
		}
		for k, v := range s.Cfg.PageMetadata {
			f.Metadata[k] = v
		}
		store.Set(f.Path, f)
	}
}
