package config_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/config"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidDocument(t *testing.T) {
	data := []byte(`{
		"site": {"title": "My Site", "baseUrl": "https://example.com"},
		"pipeline": ["markdown", {"publish": {"allowDrafts": true}}]
	}`)

	doc, err := config.Parse(data)
	require.NoError(t, err)
	require.Equal(t, "My Site", doc.Site.Title)
	require.Len(t, doc.Pipeline, 2)
	require.Equal(t, "markdown", doc.Pipeline[0].Name)
	require.Equal(t, "publish", doc.Pipeline[1].Name)
	require.JSONEq(t, `{"allowDrafts": true}`, string(doc.Pipeline[1].Options))
}

func TestParse_MissingRequiredSiteFields(t *testing.T) {
	_, err := config.Parse([]byte(`{"pipeline": []}`))
	require.Error(t, err)
}

func TestParse_PipelineMustBeArray(t *testing.T) {
	_, err := config.Parse([]byte(`{"site": {"title": "t", "baseUrl": "https://e.x"}}`))
	require.Error(t, err)
}

func TestParse_InvalidMode(t *testing.T) {
	_, err := config.Parse([]byte(`{"site": {"title": "t", "baseUrl": "https://e.x"}, "pipeline": [], "mode": "staging"}`))
	require.Error(t, err)
}

func TestParse_StageEntryRejectsMultiKeyObject(t *testing.T) {
	_, err := config.Parse([]byte(`{
		"site": {"title": "t", "baseUrl": "https://e.x"},
		"pipeline": [{"a": {}, "b": {}}]
	}`))
	require.Error(t, err)
}

func TestSiteConfig_Defaults(t *testing.T) {
	var s config.SiteConfig
	require.Equal(t, "_src", s.SourceDirOrDefault())
	require.Equal(t, "/", s.OutputDirOrDefault())
	require.Equal(t, "_layouts", s.LayoutsDirOrDefault())
}

func TestDocument_ModeOrDefault(t *testing.T) {
	doc, err := config.Parse([]byte(`{"site": {"title": "t", "baseUrl": "https://e.x"}, "pipeline": []}`))
	require.NoError(t, err)
	require.Equal(t, "development", string(doc.ModeOrDefault()))

	doc.Mode = "production"
	require.Equal(t, "production", string(doc.ModeOrDefault()))
}

func TestSiteConfig_ToSite_AuthorVariants(t *testing.T) {
	s := config.SiteConfig{Title: "t", BaseURL: "https://e.x", Author: "Jane Doe"}
	require.Equal(t, "Jane Doe", s.ToSite().Author.Name)

	s.Author = map[string]any{"name": "Jane", "email": "jane@example.com", "url": "https://jane.example.com"}
	site := s.ToSite()
	require.Equal(t, "Jane", site.Author.Name)
	require.Equal(t, "jane@example.com", site.Author.Email)
	require.Equal(t, "https://jane.example.com", site.Author.URL)
}
