package stages

import (
	"math"
	"strconv"
	"strings"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// PageRef is one entry of PaginationData.Pages.
type PageRef struct {
	Num  int
	Path string
}

// PaginationData is attached to each synthesized page file's metadata.
type PaginationData struct {
	Files    []pipelinectx.CollectionItem
	Pages    []PageRef
	Current  int
	Total    int
	Next     *PageRef
	Previous *PageRef
}

// PaginationConfig configures one collection's pagination.
type PaginationConfig struct {
	// Collection is the collection name (the part after "collections." in
	// the dotted reference the config document names).
	Collection   string
	PerPage      int
	First        string
	Path         string
	Layout       string
	PageMetadata map[string]any
	Filter       func(meta map[string]any) bool
	NoPageOne    bool
}

// PaginationStage synthesizes paginated listing files from a collection.
type PaginationStage struct {
	Configs []PaginationConfig
}

// NewPaginationStage creates a PaginationStage.
func NewPaginationStage(configs ...PaginationConfig) *PaginationStage {
	return &PaginationStage{Configs: configs}
}

func (s *PaginationStage) Name() string { return "pagination" }

func (s *PaginationStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	for _, cfg := range s.Configs {
		items := ctx.Collections()[cfg.Collection]
		if len(items) == 0 {
			continue
		}
		if cfg.Filter != nil {
			filtered := make([]pipelinectx.CollectionItem, 0, len(items))
			for _, it := range items {
				if cfg.Filter(it.Metadata) {
					filtered = append(filtered, it)
				}
			}
			items = filtered
			if len(items) == 0 {
				continue
			}
		}

		perPage := cfg.PerPage
		if perPage <= 0 {
			perPage = 10
		}
		total := int(math.Ceil(float64(len(items)) / float64(perPage)))
		pages := make([]PageRef, total)
		for i := 0; i < total; i++ {
			if i == 0 {
				pages[i] = PageRef{Num: 1, Path: cfg.First}
				continue
			}
			pages[i] = PageRef{Num: i + 1, Path: strings.ReplaceAll(cfg.Path, ":num", strconv.Itoa(i+1))}
		}

		for i := 0; i < total; i++ {
			if i > 0 && cfg.NoPageOne && pages[i].Path == cfg.First {
				continue
			}

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

			meta := map[string]any{}
			for k, v := range cfg.PageMetadata {
				meta[k] = v
			}
			if cfg.Layout != "" {
				meta[MetaLayout] = cfg.Layout
			}
			meta[MetaPagination] = PaginationData{
				Files:    items[start:end],
				Pages:    pages,
				Current:  pages[i].Num,
				Total:    total,
				Next:     next,
				Previous: previous,
			}

			key := NormalizeKey(pages[i].Path)
			f := vfs.New(key, []byte{})
			f.Metadata = meta
			store.Set(key, f)
		}
	}

	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}
