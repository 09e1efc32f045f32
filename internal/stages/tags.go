package stages

import (
	"sort"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/slug"
	"github.com/janos-ssg/janos/internal/vfs"
)

// TagCloudEntry is the per-tag summary exposed in global metadata under
// "tagCloud".
type TagCloudEntry struct {
	URLSafe string
	Length  int
}

// TagsStage normalizes each file's tags field into []Tag, and any
// additionally configured fields the same way, then aggregates the union
// into allTags and a tag cloud.
type TagsStage struct {
	// Fields lists metadata keys to normalize as tag lists, in addition to
	// the default "tags".
	Fields []string
}

// NewTagsStage creates a TagsStage over the default "tags" field.
func NewTagsStage(extraFields ...string) *TagsStage {
	return &TagsStage{Fields: append([]string{MetaTags}, extraFields...)}
}

func (s *TagsStage) Name() string { return "tags" }

func (s *TagsStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	counts := map[string]int{}

	for _, f := range store.Files() {
		for _, field := range s.Fields {
			raw, ok := f.Metadata[field]
			if !ok {
				continue
			}
			names := StringList(raw)
			if names == nil {
				continue
			}
			tags := make([]Tag, 0, len(names))
			for _, name := range names {
				tags = append(tags, Tag{Name: name, Slug: slug.Tag(name)})
				counts[name]++
			}
			f.Metadata[field] = tags
		}
	}

	allNames := make([]string, 0, len(counts))
	for name := range counts {
		allNames = append(allNames, name)
	}
	sort.Strings(allNames)

	allTags := make([]Tag, 0, len(allNames))
	tagCloud := make(map[string]TagCloudEntry, len(allNames))
	for _, name := range allNames {
		tagSlug := slug.Tag(name)
		allTags = append(allTags, Tag{Name: name, Slug: tagSlug})
		tagCloud[name] = TagCloudEntry{URLSafe: tagSlug, Length: counts[name]}
	}

	ctx.Metadata[pipelinectx.MetaKeyAllTags] = allTags
	ctx.Metadata[pipelinectx.MetaKeyTagCloud] = tagCloud
	ctx.Metadata[pipelinectx.MetaKeyTags] = tagCloud
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}
