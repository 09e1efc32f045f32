package stages

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/janos-ssg/janos/internal/logfields"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
	"github.com/janos-ssg/janos/internal/webmentionclient"
)

// WebmentionsFetcher is the HTTP collaborator the stage consumes; satisfied
// by *webmentionclient.Client, substitutable in tests.
type WebmentionsFetcher interface {
	Fetch(ctx context.Context, endpoint, target string, perPage int, sinceID *int) ([]webmentionclient.Webmention, error)
}

// WebmentionsConfig configures the fetch/merge stage.
type WebmentionsConfig struct {
	Endpoint    string
	PerPage     int
	Concurrency int
}

// WebmentionsStage fetches and merges webmentions for every eligible
// content file.
type WebmentionsStage struct {
	Cfg     WebmentionsConfig
	Fetcher WebmentionsFetcher
}

// NewWebmentionsStage creates a WebmentionsStage with the defaults:
// the public webmention.io endpoint, 100 mentions per page, concurrency 8.
func NewWebmentionsStage(fetcher WebmentionsFetcher, cfg WebmentionsConfig) *WebmentionsStage {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://webmention.io/api"
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	return &WebmentionsStage{Cfg: cfg, Fetcher: fetcher}
}

func (s *WebmentionsStage) Name() string { return "webmentions" }

type webmentionTask struct {
	file   *vfs.File
	target string
	cache  webmentionclient.Cache
}

type webmentionOutcome struct {
	file  *vfs.File
	cache webmentionclient.Cache
}

// Process: for every file carrying both layout and collection metadata,
// look up the cached mentions, fetch fresh ones (bounded concurrency, all
// targets in parallel), merge, and commit the results to the file store
// single-threaded once every fetch has returned.
func (s *WebmentionsStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	site := ctx.Site()

	var tasks []webmentionTask
	for _, f := range store.Files() {
		if GetString(f.Metadata, MetaLayout) == "" {
			continue
		}
		if GetString(f.Metadata, MetaCollection) == "" && len(StringsOfAny(f.Metadata[MetaCollections])) == 0 {
			continue
		}
		target := webmentionTarget(site.BaseURL, f)
		if target == "" {
			continue
		}

		cache := readWebmentionCache(ctx, target)
		f.Metadata[MetaWebmentions] = cache
		tasks = append(tasks, webmentionTask{file: f, target: target, cache: cache})
	}

	if len(tasks) == 0 || s.Fetcher == nil {
		return nil
	}

	outcomes := make([]webmentionOutcome, len(tasks))
	sem := make(chan struct{}, s.Cfg.Concurrency)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task webmentionTask) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			fresh, err := s.Fetcher.Fetch(context.Background(), s.Cfg.Endpoint, task.target, s.Cfg.PerPage, task.cache.LastWmID)
			ctx.Metric.ObserveWebmentionFetchDuration(time.Since(start), err == nil)
			if err != nil {
				ctx.Log.Warn("webmention fetch failed", logfields.URL(task.target), logfields.Error(err))
				outcomes[i] = webmentionOutcome{file: task.file, cache: task.cache}
				return
			}

			merged := task.cache
			merged.Merge(fresh)
			outcomes[i] = webmentionOutcome{file: task.file, cache: merged}
		}(i, task)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome.file == nil {
			continue
		}
		outcome.file.Metadata[MetaWebmentions] = outcome.cache
		if ctx.Cache != nil {
			if data, err := json.Marshal(outcome.cache); err == nil {
				key := cacheKeyFor(outcome.file.Path)
				if err := ctx.Cache.Write(key, data); err != nil {
					ctx.Log.Warn("webmention cache write failed", logfields.Path(key), logfields.Error(err))
				}
			}
		}
	}

	ctx.Metric.IncFilesProcessed(s.Name(), len(tasks))
	return nil
}

func webmentionTarget(baseURL string, f *vfs.File) string {
	if baseURL == "" {
		return ""
	}
	permalink := GetString(f.Metadata, MetaPermalink)
	if permalink == "" {
		permalink = "/" + strings.TrimPrefix(f.Path, "/")
	}
	return strings.TrimSuffix(baseURL, "/") + permalink
}

func cacheKeyFor(path string) string {
	dir := Directory(path)
	if dir == "" || dir == "." {
		return "webmentions.json"
	}
	return strings.TrimSuffix(dir, "/") + "/webmentions.json"
}

func readWebmentionCache(ctx *pipelinectx.Context, target string) webmentionclient.Cache {
	var cache webmentionclient.Cache
	if ctx.Cache == nil {
		return cache
	}
	key := cacheKeyFor(urlPath(target))
	data, ok, err := ctx.Cache.Read(key)
	if err != nil || !ok {
		return cache
	}
	_ = json.Unmarshal(data, &cache)
	return cache
}

func urlPath(target string) string {
	idx := strings.Index(target, "://")
	if idx == -1 {
		return target
	}
	rest := target[idx+3:]
	if slash := strings.Index(rest, "/"); slash != -1 {
		return rest[slash+1:]
	}
	return ""
}
