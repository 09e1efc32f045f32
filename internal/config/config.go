// Package config implements the JSON config loader and stage registry
//: parses janos.config.json, validates it, and builds a ready-to-
// Process pipeline.Driver from a registry of built-in stage factories plus
// any user-registered ones.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stageerrors"
)

// SiteConfig is the site section of the config document.
type SiteConfig struct {
	Title       string `json:"title"`
	BaseURL     string `json:"baseUrl"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Author      any    `json:"author,omitempty"`
	SourceDir   string `json:"sourceDir,omitempty"`
	OutputDir   string `json:"outputDir,omitempty"`
	LayoutsDir  string `json:"layoutsDir,omitempty"`
	RootPath    string `json:"rootPath,omitempty"`
}

// StageEntry is one pipeline entry: either a bare stage name, or a
// single-key object mapping the stage name to its options.
type StageEntry struct {
	Name    string
	Options json.RawMessage
}

// UnmarshalJSON accepts either a JSON string (bare stage name) or a
// single-key JSON object (name -> options).
func (e *StageEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		e.Name = name
		e.Options = nil
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("pipeline entry must be a string or single-key object: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("pipeline entry object must have exactly one key, got %d", len(obj))
	}
	for k, v := range obj {
		e.Name = k
		e.Options = v
	}
	return nil
}

// Document is the parsed janos.config.json.
type Document struct {
	Schema   string         `json:"$schema,omitempty"`
	Site     SiteConfig     `json:"site"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Pipeline []StageEntry   `json:"pipeline"`
	Mode     string         `json:"mode,omitempty"`
}

// Parse decodes and validates a config document from raw JSON bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, stageerrors.Config(fmt.Sprintf("malformed config JSON: %v", err))
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	var missing []string
	if d.Site.Title == "" {
		missing = append(missing, "site.title")
	}
	if d.Site.BaseURL == "" {
		missing = append(missing, "site.baseUrl")
	}
	if len(missing) > 0 {
		return stageerrors.Config(fmt.Sprintf("missing required configuration: %v", missing))
	}
	if d.Pipeline == nil {
		return stageerrors.Config("pipeline must be an array")
	}
	switch d.Mode {
	case "", "development", "production":
	default:
		return stageerrors.Config(fmt.Sprintf("invalid mode %q: must be development or production", d.Mode))
	}
	return nil
}

// SourceDirOrDefault returns the configured source directory, defaulting to "_src".
func (s SiteConfig) SourceDirOrDefault() string {
	if s.SourceDir == "" {
		return "_src"
	}
	return s.SourceDir
}

// OutputDirOrDefault returns the configured output directory, defaulting to "/".
func (s SiteConfig) OutputDirOrDefault() string {
	if s.OutputDir == "" {
		return "/"
	}
	return s.OutputDir
}

// LayoutsDirOrDefault returns the configured layouts directory, defaulting to "_layouts".
func (s SiteConfig) LayoutsDirOrDefault() string {
	if s.LayoutsDir == "" {
		return "_layouts"
	}
	return s.LayoutsDir
}

// ModeOrDefault returns the configured mode, defaulting to development.
func (d *Document) ModeOrDefault() pipelinectx.Mode {
	if d.Mode == "production" {
		return pipelinectx.ModeProduction
	}
	return pipelinectx.ModeDevelopment
}

// ToSite converts the config's site section into a pipelinectx.Site.
func (s SiteConfig) ToSite() pipelinectx.Site {
	name, email, url := "", "", ""
	switch v := s.Author.(type) {
	case string:
		name = v
	case map[string]any:
		if n, ok := v["name"].(string); ok {
			name = n
		}
		if e, ok := v["email"].(string); ok {
			email = e
		}
		if u, ok := v["url"].(string); ok {
			url = u
		}
	}
	return pipelinectx.Site{
		Title:       s.Title,
		BaseURL:     s.BaseURL,
		Description: s.Description,
		Language:    s.Language,
		Author:      pipelinectx.Author{Name: name, Email: email, URL: url},
		RootPath:    s.RootPath,
	}
}
