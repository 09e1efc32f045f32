package stages_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stages"
	"github.com/janos-ssg/janos/internal/vfs"
	"github.com/stretchr/testify/require"
)

func TestTagsStage_NormalizesFieldAndBuildsCloud(t *testing.T) {
	store := vfs.NewStore()
	ctx := newTestContext()

	a := vfs.New("a.html", nil)
	a.Metadata[stages.MetaTags] = []string{"go", "testing"}
	store.Set(a.Path, a)

	b := vfs.New("b.html", nil)
	b.Metadata[stages.MetaTags] = []string{"go"}
	store.Set(b.Path, b)

	stage := stages.NewTagsStage()
	require.NoError(t, stage.Process(store, ctx))

	tags, ok := a.Metadata[stages.MetaTags].([]stages.Tag)
	require.True(t, ok)
	require.Len(t, tags, 2)

	allTags, ok := ctx.Metadata[pipelinectx.MetaKeyAllTags].([]stages.Tag)
	require.True(t, ok)
	require.Len(t, allTags, 2)

	cloud, ok := ctx.Metadata[pipelinectx.MetaKeyTagCloud].(map[string]stages.TagCloudEntry)
	require.True(t, ok)
	require.Equal(t, 2, cloud["go"].Length)

	// The tag cloud is exposed under both "tagCloud" and "tags" so templates
	// can reach it either way.
	aliased, ok := ctx.Metadata[pipelinectx.MetaKeyTags].(map[string]stages.TagCloudEntry)
	require.True(t, ok)
	require.Equal(t, cloud, aliased)
}
