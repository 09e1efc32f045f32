package stages

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/janos-ssg/janos/internal/logfields"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// FeedConfig configures one RSS/Atom pair generated from a collection.
//
// XML encoding is done with the standard library's encoding/xml: no
// library in the example pack offers an RSS/Atom generator, and xml.Marshal
// covers the fixed, well-known RSS 2.0/Atom 1.0 shapes this stage emits
// without needing a templating layer.
type FeedConfig struct {
	Collection      string
	Limit           int
	Destination     string
	AtomDestination string
	DescriptionField string
	ContentField    string
	FullContent     bool
}

// FeedsStage emits RSS 2.0 (and optionally Atom 1.0) documents from a
// collection's most recent items.
type FeedsStage struct {
	Cfg FeedConfig
}

// NewFeedsStage creates a FeedsStage with the defaults.
func NewFeedsStage(cfg FeedConfig) *FeedsStage {
	if cfg.Collection == "" {
		cfg.Collection = "posts"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	if cfg.Destination == "" {
		cfg.Destination = "rss.xml"
	}
	if cfg.DescriptionField == "" {
		cfg.DescriptionField = "excerpt"
	}
	if cfg.ContentField == "" {
		cfg.ContentField = "contents"
	}
	return &FeedsStage{Cfg: cfg}
}

func (s *FeedsStage) Name() string { return "feeds" }

type rssChannel struct {
	XMLName       xml.Name  `xml:"channel"`
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title          string  `xml:"title"`
	Link           string  `xml:"link"`
	GUID           rssGUID `xml:"guid"`
	PubDate        string  `xml:"pubDate"`
	Description    string  `xml:"description"`
	ContentEncoded *cdata  `xml:"content:encoded,omitempty"`
}

// cdata wraps RSS's content:encoded body in a CDATA section, per the
// content module's convention of carrying raw HTML unescaped.
type cdata struct {
	Value string `xml:",cdata"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	ContentNS string   `xml:"xmlns:content,attr"`
	Channel rssChannel `xml:"channel"`
}

type atomFeed struct {
	XMLName  xml.Name   `xml:"feed"`
	XMLNS    string     `xml:"xmlns,attr"`
	Title    string     `xml:"title"`
	ID       string     `xml:"id"`
	Updated  string     `xml:"updated"`
	Links    []atomLink `xml:"link"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	ID        string `xml:"id"`
	Updated   string `xml:"updated"`
	Published string `xml:"published"`
	Summary   string `xml:"summary"`
	Content   string `xml:"content,omitempty"`
	Link      atomLink `xml:"link"`
}

// Process implements: read the configured collection, take the most
// recent Limit items, emit RSS 2.0 (and Atom 1.0 if AtomDestination is set).
func (s *FeedsStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	site := ctx.Site()
	if site.BaseURL == "" {
		ctx.Log.Warn("feeds skipped: site.baseUrl not configured", logfields.Stage(s.Name()))
		return nil
	}

	collections := ctx.Collections()
	source := collections[s.Cfg.Collection]
	if len(source) == 0 {
		return nil
	}
	items := append([]pipelinectx.CollectionItem(nil), source...)

	sort.SliceStable(items, func(i, j int) bool {
		return compareSortValues(items[i].Metadata[MetaDate], items[j].Metadata[MetaDate]) > 0
	})
	if s.Cfg.Limit < len(items) {
		items = items[:s.Cfg.Limit]
	}

	now := ctx.Now()
	rssItems := make([]rssItem, 0, len(items))
	atomEntries := make([]atomEntry, 0, len(items))
	for _, item := range items {
		link := absoluteURL(site.BaseURL, item.Path, item.Metadata)
		pubTime, _ := GetTime(item.Metadata, MetaDate)
		description := GetString(item.Metadata, s.Cfg.DescriptionField)

		ri := rssItem{
			Title:       GetString(item.Metadata, MetaTitle),
			Link:        link,
			GUID:        rssGUID{IsPermaLink: "true", Value: link},
			PubDate:     pubTime.Format(time.RFC1123Z),
			Description: description,
		}
		var fullContent string
		if s.Cfg.FullContent {
			fullContent = GetString(item.Metadata, s.Cfg.ContentField)
			ri.ContentEncoded = &cdata{Value: fullContent}
		}
		rssItems = append(rssItems, ri)

		atomEntries = append(atomEntries, atomEntry{
			Title:     GetString(item.Metadata, MetaTitle),
			ID:        link,
			Updated:   pubTime.Format(time.RFC3339),
			Published: pubTime.Format(time.RFC3339),
			Summary:   description,
			Content:   fullContent,
			Link:      atomLink{Href: link},
		})
	}

	feed := rssFeed{
		Version:   "2.0",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		Channel: rssChannel{
			Title:         site.Title,
			Link:          site.BaseURL,
			Description:   site.Description,
			LastBuildDate: now.Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}
	rssBytes, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling rss feed: %w", err)
	}
	writeGeneratedFile(store, s.Cfg.Destination, append([]byte(xml.Header), rssBytes...))

	if s.Cfg.AtomDestination != "" {
		atom := atomFeed{
			XMLNS:   "http://www.w3.org/2005/Atom",
			Title:   site.Title,
			ID:      site.BaseURL,
			Updated: now.Format(time.RFC3339),
			Links:   []atomLink{{Href: site.BaseURL}},
			Entries: atomEntries,
		}
		atomBytes, err := xml.MarshalIndent(atom, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling atom feed: %w", err)
		}
		writeGeneratedFile(store, s.Cfg.AtomDestination, append([]byte(xml.Header), atomBytes...))
	}

	return nil
}

// writeGeneratedFile inserts a synthesized output file carrying
// metadata.layout = false, so the layout stage skips it.
func writeGeneratedFile(store *vfs.Store, path string, contents []byte) {
	f := vfs.New(path, contents)
	f.Metadata[MetaLayout] = false
	store.Set(path, f)
}

// absoluteURL joins baseUrl with a file's permalink (falling back to its
// store path), trimming a trailing index.html.
func absoluteURL(baseURL, path string, meta map[string]any) string {
	link := GetString(meta, MetaPermalink)
	if link == "" {
		link = "/" + strings.TrimSuffix(path, "index.html")
	}
	return trimTrailingSlash(baseURL) + link
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
