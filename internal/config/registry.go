package config

import (
	"encoding/json"
	"fmt"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/imagecodec"
	"github.com/janos-ssg/janos/internal/pipeline"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stageerrors"
	"github.com/janos-ssg/janos/internal/stages"
	"github.com/janos-ssg/janos/internal/webmentionclient"
)

// StageFactory builds a pipeline.Stage from its raw JSON options.
type StageFactory func(options json.RawMessage) (pipeline.Stage, error)

// Registry maps stage names to factories; built-ins are seeded once and
// protected from re-registration.
type Registry struct {
	mode     pipelinectx.Mode
	builtins map[string]StageFactory
	custom   map[string]StageFactory
}

// NewRegistry creates a Registry pre-populated with every built-in stage.
// mode seeds the publish stage's dev-mode defaults.
func NewRegistry(mode pipelinectx.Mode) *Registry {
	r := &Registry{mode: mode, builtins: map[string]StageFactory{}, custom: map[string]StageFactory{}}
	r.registerBuiltins()
	return r
}

// Register adds a user-provided stage factory under name. Returns a
// configuration error if name collides with a built-in.
func (r *Registry) Register(name string, factory StageFactory) error {
	if _, ok := r.builtins[name]; ok {
		return stageerrors.Config(fmt.Sprintf("cannot re-register built-in stage %q", name))
	}
	r.custom[name] = factory
	return nil
}

// Build looks up name (built-in first, then custom) and invokes its
// factory with the entry's raw options. Unknown names are a config error.
func (r *Registry) Build(entry StageEntry) (pipeline.Stage, error) {
	if factory, ok := r.builtins[entry.Name]; ok {
		return factory(entry.Options)
	}
	if factory, ok := r.custom[entry.Name]; ok {
		return factory(entry.Options)
	}
	return nil, stageerrors.Config(fmt.Sprintf("unknown pipeline stage %q", entry.Name))
}

func decodeOptions(options json.RawMessage, target any) error {
	if len(options) == 0 {
		return nil
	}
	if err := json.Unmarshal(options, target); err != nil {
		return stageerrors.Config(fmt.Sprintf("invalid options: %v", err))
	}
	return nil
}

// validatePatterns rejects a malformed glob pattern with a precise error at
// load time, rather than it silently matching nothing once the build runs.
func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if err := glob.ValidatePattern(p); err != nil {
			return stageerrors.Config(err.Error())
		}
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.builtins["markdown"] = func(options json.RawMessage) (pipeline.Stage, error) {
		return stages.NewConvertStage(), nil
	}
	r.builtins["publish"] = func(options json.RawMessage) (pipeline.Stage, error) {
		s := stages.NewPublishStage(r.mode)
		var opts struct {
			AllowDrafts  *bool `json:"allowDrafts"`
			AllowFuture  *bool `json:"allowFuture"`
			AllowPrivate *bool `json:"allowPrivate"`
		}
		if err := decodeOptions(options, &opts); err != nil {
			return nil, err
		}
		if opts.AllowDrafts != nil {
			s.AllowDrafts = *opts.AllowDrafts
		}
		if opts.AllowFuture != nil {
			s.AllowFuture = *opts.AllowFuture
		}
		if opts.AllowPrivate != nil {
			s.AllowPrivate = *opts.AllowPrivate
		}
		return s, nil
	}
	r.builtins["excerpts"] = func(options json.RawMessage) (pipeline.Stage, error) {
		s := stages.NewExcerptsStage()
		if err := decodeOptions(options, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	r.builtins["tags"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var opts struct {
			Fields []string `json:"fields"`
		}
		if err := decodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return stages.NewTagsStage(opts.Fields...), nil
	}
	r.builtins["collections"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var raw map[string]json.RawMessage
		if err := decodeOptions(options, &raw); err != nil {
			return nil, err
		}
		configs := map[string]stages.CollectionConfig{}
		for name, v := range raw {
			var cfg struct {
				Pattern []string `json:"pattern"`
				SortBy  string   `json:"sortBy"`
				Reverse bool     `json:"reverse"`
				Refer   *bool    `json:"refer"`
				Limit   int      `json:"limit"`
			}
			switch {
			case len(v) > 0 && v[0] == '"':
				var pattern string
				if err := json.Unmarshal(v, &pattern); err != nil {
					return nil, stageerrors.Config(fmt.Sprintf("invalid collection config for %q: %v", name, err))
				}
				cfg.Pattern = []string{pattern}
			default:
				if err := json.Unmarshal(v, &cfg); err != nil {
					return nil, stageerrors.Config(fmt.Sprintf("invalid collection config for %q: %v", name, err))
				}
			}
			if err := validatePatterns(cfg.Pattern); err != nil {
				return nil, err
			}
			configs[name] = stages.CollectionConfig{Pattern: cfg.Pattern, SortBy: cfg.SortBy, Reverse: cfg.Reverse, Refer: cfg.Refer, Limit: cfg.Limit}
		}
		return &stages.CollectionsStage{Configs: configs}, nil
	}
	r.builtins["permalinks"] = func(options json.RawMessage) (pipeline.Stage, error) {
		s := stages.NewPermalinksStage()
		var opts struct {
			Match         []string `json:"match"`
			Pattern       string   `json:"pattern"`
			TrailingSlash *bool    `json:"trailingSlash"`
		}
		if err := decodeOptions(options, &opts); err != nil {
			return nil, err
		}
		if err := validatePatterns(opts.Match); err != nil {
			return nil, err
		}
		if len(opts.Match) > 0 {
			s.Match = opts.Match
		}
		if opts.Pattern != "" {
			s.Pattern = opts.Pattern
		}
		if opts.TrailingSlash != nil {
			s.TrailingSlash = *opts.TrailingSlash
		}
		return s, nil
	}
	r.builtins["coordination"] = func(options json.RawMessage) (pipeline.Stage, error) {
		return stages.NewCoordinationStage(), nil
	}
	r.builtins["pagination"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var configs []stages.PaginationConfig
		if err := decodeOptions(options, &configs); err != nil {
			return nil, err
		}
		return stages.NewPaginationStage(configs...), nil
	}
	r.builtins["tag-pages"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var cfg stages.TagPagesConfig
		if err := decodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return stages.NewTagPagesStage(cfg), nil
	}
	r.builtins["assets"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var mappings []stages.AssetMapping
		if err := decodeOptions(options, &mappings); err != nil {
			return nil, err
		}
		return stages.NewAssetsStage(mappings...), nil
	}
	r.builtins["css-urls"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var opts struct {
			Pattern []string `json:"pattern"`
		}
		if err := decodeOptions(options, &opts); err != nil {
			return nil, err
		}
		s := stages.NewCSSURLRewriteStage()
		if len(opts.Pattern) > 0 {
			s.Pattern = opts.Pattern
		}
		return s, nil
	}
	r.builtins["inline-source"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var opts struct {
			MaxSize int `json:"maxSize"`
		}
		if err := decodeOptions(options, &opts); err != nil {
			return nil, err
		}
		s := stages.NewInlineSourceStage()
		if opts.MaxSize > 0 {
			s.MaxSize = opts.MaxSize
		}
		return s, nil
	}
	r.builtins["responsive-images"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var cfg stages.ResponsiveImagesConfig
		if err := decodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		if err := validatePatterns(cfg.Match); err != nil {
			return nil, err
		}
		return stages.NewResponsiveImagesStage(imagecodec.NewLocalEncoder(), cfg), nil
	}
	r.builtins["webmentions"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var cfg stages.WebmentionsConfig
		if err := decodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return stages.NewWebmentionsStage(webmentionclient.NewClient(), cfg), nil
	}
	r.builtins["feeds"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var cfg stages.FeedConfig
		if err := decodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return stages.NewFeedsStage(cfg), nil
	}
	r.builtins["sitemap"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var cfg stages.SitemapConfig
		if err := decodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		if err := validatePatterns(cfg.Match); err != nil {
			return nil, err
		}
		if err := validatePatterns(cfg.Exclude); err != nil {
			return nil, err
		}
		return stages.NewSitemapStage(cfg), nil
	}
	r.builtins["layouts"] = func(options json.RawMessage) (pipeline.Stage, error) {
		var cfg stages.LayoutsConfig
		if err := decodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return stages.NewLayoutsStage(cfg), nil
	}
}
