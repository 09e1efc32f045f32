package stages

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/slug"
	"github.com/janos-ssg/janos/internal/vfs"
)

// Linkset is a (match-criteria, permalink-pattern) pair: the first linkset
// whose criteria all match a given file wins.
type Linkset struct {
	MatchPattern  []string
	MatchMeta     map[string]string
	Pattern       string
	TrailingSlash *bool
	Slug          func(string) string
}

func (l Linkset) matches(f *vfs.File) bool {
	if len(l.MatchPattern) > 0 && !glob.MatchAny(l.MatchPattern, f.Path) {
		return false
	}
	for key, expected := range l.MatchMeta {
		if !ContainsString(f.Metadata[key], expected) {
			return false
		}
	}
	return true
}

// PermalinksStage rewrites file keys to their final URL-shaped paths and
// records the human-facing permalink string.
type PermalinksStage struct {
	Match         []string
	Pattern       string
	Linksets      []Linkset
	TrailingSlash bool
	Slug          func(string) string
}

// NewPermalinksStage creates a PermalinksStage with the default
// match pattern.
func NewPermalinksStage() *PermalinksStage {
	return &PermalinksStage{Match: []string{"**/*.html"}, Slug: slug.Permalink, TrailingSlash: true}
}

func (s *PermalinksStage) Name() string { return "permalinks" }

var placeholderRe = regexp.MustCompile(`:(\w+)`)

func (s *PermalinksStage) slugFn() func(string) string {
	if s.Slug != nil {
		return s.Slug
	}
	return slug.Permalink
}

func (s *PermalinksStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	occupied := map[string]bool{}
	for _, k := range store.Keys() {
		occupied[k] = true
	}

	type rename struct{ oldKey, newKey, permalink string }
	var renames []rename

	match := s.Match
	if len(match) == 0 {
		match = []string{"**/*.html"}
	}

	for _, f := range store.Files() {
		if !glob.MatchAny(match, f.Path) {
			continue
		}
		if isIndexHTML(f.Path) {
			continue
		}

		pattern, trailingSlash, slugFn := s.resolvePattern(f)

		var basePath string
		if pattern == "" {
			basePath = StripExtension(f.Path)
		} else {
			basePath = substitutePlaceholders(pattern, f, slugFn)
		}
		basePath = strings.TrimPrefix(basePath, "/")

		if trailingSlash {
			basePath = strings.TrimSuffix(basePath, "/") + "/index.html"
		} else if !strings.HasSuffix(basePath, ".html") {
			basePath += ".html"
		}

		delete(occupied, f.Path)
		finalKey := basePath
		if occupied[finalKey] {
			finalKey = uniquify(basePath, occupied)
		}
		occupied[finalKey] = true

		permalink := "/" + finalKey
		if strings.HasSuffix(finalKey, "/index.html") {
			permalink = "/" + strings.TrimSuffix(finalKey, "index.html")
		} else if finalKey == "index.html" {
			permalink = "/"
		}

		renames = append(renames, rename{f.Path, finalKey, permalink})
	}

	for _, r := range renames {
		if f, ok := store.Get(r.oldKey); ok {
			store.Delete(r.oldKey)
			f.Path = r.newKey
			f.Metadata[MetaPermalink] = r.permalink
			store.Set(r.newKey, f)
		}
	}

	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}

func (s *PermalinksStage) resolvePattern(f *vfs.File) (pattern string, trailingSlash bool, slugFn func(string) string) {
	trailingSlash = s.TrailingSlash
	slugFn = s.slugFn()

	if p := GetString(f.Metadata, MetaPermalink); p != "" {
		return p, trailingSlash, slugFn
	}
	for _, ls := range s.Linksets {
		if !ls.matches(f) {
			continue
		}
		if ls.TrailingSlash != nil {
			trailingSlash = *ls.TrailingSlash
		}
		if ls.Slug != nil {
			slugFn = ls.Slug
		}
		return ls.Pattern, trailingSlash, slugFn
	}
	if s.Pattern != "" {
		return s.Pattern, trailingSlash, slugFn
	}
	return "", trailingSlash, slugFn
}

// substitutePlaceholders replaces :basename, :directory|:dir, :title,
// :slug, :year, :month, :day, :date, and :key tokens against file
// metadata, slugging every substituted value except :date (whose
// YYYY/MM/DD slashes a generic slug would otherwise destroy).
func substitutePlaceholders(pattern string, f *vfs.File, slugFn func(string) string) string {
	return placeholderRe.ReplaceAllStringFunc(pattern, func(tok string) string {
		key := tok[1:]

		if key == "date" {
			if t, ok := GetTime(f.Metadata, MetaDate); ok {
				return FormatDatePath(t)
			}
			return ""
		}

		var raw string
		switch key {
		case "basename":
			raw = Basename(f.Path)
		case "directory", "dir":
			raw = Directory(f.Path)
		case "title":
			raw = GetString(f.Metadata, MetaTitle)
		case "slug":
			if v := GetString(f.Metadata, "slug"); v != "" {
				raw = v
			} else {
				raw = GetString(f.Metadata, MetaTitle)
			}
		case "year", "month", "day":
			t, ok := GetTime(f.Metadata, MetaDate)
			if !ok {
				return ""
			}
			switch key {
			case "year":
				raw = fmt.Sprintf("%04d", t.Year())
			case "month":
				raw = fmt.Sprintf("%02d", t.Month())
			case "day":
				raw = fmt.Sprintf("%02d", t.Day())
			}
		default:
			if v, ok := f.Metadata[key]; ok {
				raw = fmt.Sprint(v)
			} else {
				return ""
			}
		}
		return slugFn(raw)
	})
}

func isIndexHTML(path string) bool {
	return path == "index.html" || strings.HasSuffix(path, "/index.html")
}

func uniquify(basePath string, occupied map[string]bool) string {
	prefix, suffix := basePath, ""
	switch {
	case strings.HasSuffix(basePath, "/index.html"):
		prefix = strings.TrimSuffix(basePath, "/index.html")
		suffix = "/index.html"
	case strings.HasSuffix(basePath, ".html"):
		prefix = strings.TrimSuffix(basePath, ".html")
		suffix = ".html"
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", prefix, i, suffix)
		if !occupied[candidate] {
			return candidate
		}
	}
}
