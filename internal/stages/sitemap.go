package stages

import (
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/logfields"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// SitemapConfig configures sitemap.xml generation.
type SitemapConfig struct {
	Match        []string
	Exclude      []string
	Destination  string
	Changefreq   string
	Priority     string
}

// SitemapStage emits a Sitemaps-0.9 document from every eligible HTML file.
type SitemapStage struct {
	Cfg SitemapConfig
}

// NewSitemapStage creates a SitemapStage with the defaults.
func NewSitemapStage(cfg SitemapConfig) *SitemapStage {
	if len(cfg.Match) == 0 {
		cfg.Match = []string{"**/*.html"}
	}
	if len(cfg.Exclude) == 0 {
		cfg.Exclude = []string{"**/404.html", "**/500.html", "**/_*/**"}
	}
	if cfg.Destination == "" {
		cfg.Destination = "sitemap.xml"
	}
	if cfg.Changefreq == "" {
		cfg.Changefreq = "weekly"
	}
	if cfg.Priority == "" {
		cfg.Priority = "0.5"
	}
	return &SitemapStage{Cfg: cfg}
}

func (s *SitemapStage) Name() string { return "sitemap" }

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Process implements: enumerate matching HTML files, skip
// sitemap===false/noindex===true, emit sorted, absolute, XML-escaped URLs.
func (s *SitemapStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	site := ctx.Site()
	if site.BaseURL == "" {
		ctx.Log.Warn("sitemap skipped: site.baseUrl not configured", logfields.Stage(s.Name()))
		return nil
	}

	var urls []sitemapURL
	for _, f := range store.Files() {
		if !glob.MatchAny(s.Cfg.Match, f.Path) {
			continue
		}
		if glob.MatchAny(s.Cfg.Exclude, f.Path) {
			continue
		}
		if v, ok := f.Metadata[MetaSitemap].(bool); ok && !v {
			continue
		}
		if GetBool(f.Metadata, MetaNoindex) {
			continue
		}

		lastmod := ""
		if t, ok := GetTime(f.Metadata, MetaModified); ok {
			lastmod = t.Format("2006-01-02")
		} else if t, ok := GetTime(f.Metadata, MetaDate); ok {
			lastmod = t.Format("2006-01-02")
		}

		changefreq := GetString(f.Metadata, MetaChangefreq)
		if changefreq == "" {
			changefreq = s.Cfg.Changefreq
		}
		priority := GetString(f.Metadata, MetaPriority)
		if priority == "" {
			priority = s.Cfg.Priority
		}

		urls = append(urls, sitemapURL{
			Loc:        absoluteURL(site.BaseURL, f.Path, f.Metadata),
			LastMod:    lastmod,
			ChangeFreq: changefreq,
			Priority:   priority,
		})
	}

	sort.Slice(urls, func(i, j int) bool { return urls[i].Loc < urls[j].Loc })

	doc := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: urls}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling sitemap: %w", err)
	}
	writeGeneratedFile(store, s.Cfg.Destination, append([]byte(xml.Header), data...))
	return nil
}
