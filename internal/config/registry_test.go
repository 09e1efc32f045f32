package config_test

import (
	"encoding/json"
	"testing"

	"github.com/janos-ssg/janos/internal/config"
	"github.com/janos-ssg/janos/internal/pipeline"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stages"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Build_UnknownStage(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	_, err := r.Build(config.StageEntry{Name: "not-a-real-stage"})
	require.Error(t, err)
}

func TestRegistry_Register_RejectsBuiltinCollision(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	err := r.Register("markdown", func(json.RawMessage) (pipeline.Stage, error) {
		return stages.NewConvertStage(), nil
	})
	require.Error(t, err)
}

func TestRegistry_Register_CustomStageIsReachableByBuild(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	called := false
	require.NoError(t, r.Register("my-stage", func(json.RawMessage) (pipeline.Stage, error) {
		called = true
		return stages.NewConvertStage(), nil
	}))
	_, err := r.Build(config.StageEntry{Name: "my-stage"})
	require.NoError(t, err)
	require.True(t, called)
}

func TestRegistry_Publish_DevModeDefaultsApplyWithoutExplicitOptions(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeDevelopment)
	stage, err := r.Build(config.StageEntry{Name: "publish"})
	require.NoError(t, err)
	ps, ok := stage.(*stages.PublishStage)
	require.True(t, ok)
	require.True(t, ps.AllowDrafts)
	require.True(t, ps.AllowFuture)
	require.False(t, ps.AllowPrivate)
}

func TestRegistry_Publish_ProductionDefaultsAreStrict(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	stage, err := r.Build(config.StageEntry{Name: "publish"})
	require.NoError(t, err)
	ps := stage.(*stages.PublishStage)
	require.False(t, ps.AllowDrafts)
	require.False(t, ps.AllowFuture)
}

func TestRegistry_Publish_ExplicitOptionOverridesDevDefault(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeDevelopment)
	stage, err := r.Build(config.StageEntry{Name: "publish", Options: json.RawMessage(`{"allowDrafts": false}`)})
	require.NoError(t, err)
	ps := stage.(*stages.PublishStage)
	require.False(t, ps.AllowDrafts)
	require.True(t, ps.AllowFuture)
}

func TestRegistry_Collections_AcceptsBareStringPattern(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	stage, err := r.Build(config.StageEntry{
		Name:    "collections",
		Options: json.RawMessage(`{"posts": "blog/**/*.md"}`),
	})
	require.NoError(t, err)
	cs := stage.(*stages.CollectionsStage)
	require.Equal(t, []string{"blog/**/*.md"}, cs.Configs["posts"].Pattern)
}

func TestRegistry_Collections_AcceptsObjectConfig(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	stage, err := r.Build(config.StageEntry{
		Name:    "collections",
		Options: json.RawMessage(`{"posts": {"pattern": ["blog/**/*.md"], "sortBy": "date", "reverse": true, "limit": 10}}`),
	})
	require.NoError(t, err)
	cs := stage.(*stages.CollectionsStage)
	require.Equal(t, "date", cs.Configs["posts"].SortBy)
	require.True(t, cs.Configs["posts"].Reverse)
	require.Equal(t, 10, cs.Configs["posts"].Limit)
}

func TestRegistry_CSSURLs_AppliesDecodedPattern(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	stage, err := r.Build(config.StageEntry{
		Name:    "css-urls",
		Options: json.RawMessage(`{"pattern": ["**/*.css"]}`),
	})
	require.NoError(t, err)
	cs := stage.(*stages.CSSURLRewriteStage)
	require.Equal(t, []string{"**/*.css"}, cs.Pattern)
}

func TestRegistry_Permalinks_OptionsOverrideDefaults(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	stage, err := r.Build(config.StageEntry{
		Name:    "permalinks",
		Options: json.RawMessage(`{"pattern": "/:year/:slug/", "trailingSlash": true}`),
	})
	require.NoError(t, err)
	ps := stage.(*stages.PermalinksStage)
	require.Equal(t, "/:year/:slug/", ps.Pattern)
	require.True(t, ps.TrailingSlash)
}

func TestRegistry_Permalinks_DefaultMatchWithoutOptions(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	stage, err := r.Build(config.StageEntry{Name: "permalinks"})
	require.NoError(t, err)
	ps := stage.(*stages.PermalinksStage)
	require.Equal(t, []string{"**/*.html"}, ps.Match)
}

func TestRegistry_Permalinks_RejectsMalformedMatchPattern(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	_, err := r.Build(config.StageEntry{
		Name:    "permalinks",
		Options: json.RawMessage(`{"match": ["a[bc"]}`),
	})
	require.Error(t, err)
}

func TestRegistry_Collections_RejectsMalformedPattern(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	_, err := r.Build(config.StageEntry{
		Name:    "collections",
		Options: json.RawMessage(`{"posts": {"pattern": ["a[bc"]}}`),
	})
	require.Error(t, err)
}

func TestRegistry_Sitemap_RejectsMalformedMatchOrExcludePattern(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	_, err := r.Build(config.StageEntry{
		Name:    "sitemap",
		Options: json.RawMessage(`{"match": ["a[bc"]}`),
	})
	require.Error(t, err)

	_, err = r.Build(config.StageEntry{
		Name:    "sitemap",
		Options: json.RawMessage(`{"exclude": ["a[bc"]}`),
	})
	require.Error(t, err)
}

func TestRegistry_ResponsiveImages_RejectsMalformedMatchPattern(t *testing.T) {
	r := config.NewRegistry(pipelinectx.ModeProduction)
	_, err := r.Build(config.StageEntry{
		Name:    "responsive-images",
		Options: json.RawMessage(`{"match": ["a[bc"]}`),
	})
	require.Error(t, err)
}
