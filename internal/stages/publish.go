package stages

import (
	"github.com/janos-ssg/janos/internal/logfields"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// PublishStage removes draft, private, and future-dated files, honoring
// dev-mode overrides.
type PublishStage struct {
	// AllowDrafts includes draft==true / publish=="draft" files anyway.
	AllowDrafts bool
	// AllowFuture includes files whose date is in the future.
	AllowFuture bool
	// AllowPrivate includes private==true / publish=="private" files anyway.
	AllowPrivate bool
}

// NewPublishStage creates a PublishStage with the default overrides
// for the given mode: development relaxes drafts and future dates, never
// private.
func NewPublishStage(mode pipelinectx.Mode) *PublishStage {
	dev := mode == pipelinectx.ModeDevelopment
	return &PublishStage{AllowDrafts: dev, AllowFuture: dev, AllowPrivate: false}
}

func (s *PublishStage) Name() string { return "publish" }

func (s *PublishStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	now := ctx.Now()
	reasons := map[string]int{}

	var toDelete []string
	for _, f := range store.Files() {
		if s.isDraft(f.Metadata) && !s.AllowDrafts {
			toDelete = append(toDelete, f.Path)
			reasons["draft"]++
			continue
		}
		if s.isPrivate(f.Metadata) && !s.AllowPrivate {
			toDelete = append(toDelete, f.Path)
			reasons["private"]++
			continue
		}
		if t, ok := GetTime(f.Metadata, MetaDate); ok && t.After(now) && !s.AllowFuture {
			toDelete = append(toDelete, f.Path)
			reasons["future"]++
			continue
		}
	}

	for _, key := range toDelete {
		store.Delete(key)
	}

	for reason, count := range reasons {
		ctx.Log.Info("publish excluded files", logfields.Count(count), logfields.Name(reason))
	}
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}

func (s *PublishStage) isDraft(meta map[string]any) bool {
	return GetBool(meta, MetaDraft) || GetString(meta, MetaPublish) == "draft"
}

func (s *PublishStage) isPrivate(meta map[string]any) bool {
	return GetBool(meta, MetaPrivate) || GetString(meta, MetaPublish) == "private"
}
