package stages

import (
	"sort"
	"strings"
	"time"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// CollectionConfig configures a single named collection.
type CollectionConfig struct {
	Pattern []string
	SortBy  string
	Reverse bool
	// Refer controls whether added files get this collection name appended
	// to their metadata.collections back-reference. Defaults to true.
	Refer *bool
	Limit  int
	Filter func(meta map[string]any) bool
}

func (c CollectionConfig) refer() bool {
	return c.Refer == nil || *c.Refer
}

func (c CollectionConfig) sortBy() string {
	if c.SortBy == "" {
		return MetaDate
	}
	return c.SortBy
}

// CollectionsStage builds the named, ordered collection map exposed in
// global metadata under "collections".
type CollectionsStage struct {
	Configs map[string]CollectionConfig
}

// NewCollectionsStage creates a CollectionsStage from the given named configs.
func NewCollectionsStage(configs map[string]CollectionConfig) *CollectionsStage {
	if configs == nil {
		configs = map[string]CollectionConfig{}
	}
	return &CollectionsStage{Configs: configs}
}

func (s *CollectionsStage) Name() string { return "collections" }

type collectionState struct {
	cfg   CollectionConfig
	items []pipelinectx.CollectionItem
	seen  map[string]bool
}

func (s *CollectionsStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	states := map[string]*collectionState{}

	// 1. Initialize every configured collection to empty.
	for name, cfg := range s.Configs {
		states[name] = &collectionState{cfg: cfg, seen: map[string]bool{}}
	}

	stateFor := func(name string) *collectionState {
		st, ok := states[name]
		if !ok {
			st = &collectionState{cfg: s.Configs[name], seen: map[string]bool{}}
			states[name] = st
		}
		return st
	}

	add := func(name string, f *vfs.File) {
		st := stateFor(name)
		if st.seen[f.Path] {
			return
		}
		if st.cfg.Filter != nil && !st.cfg.Filter(f.Metadata) {
			return
		}
		st.seen[f.Path] = true
		st.items = append(st.items, pipelinectx.CollectionItem{
			Path:       f.Path,
			SourcePath: f.SourcePath,
			Contents:   string(f.Contents),
			Metadata:   vfs.CloneMetadata(f.Metadata),
		})

		if !st.cfg.refer() {
			return
		}
		existing := StringList(f.Metadata[MetaCollections])
		already := false
		for _, n := range existing {
			if n == name {
				already = true
				break
			}
		}
		if !already {
			existing = append(existing, name)
			f.Metadata[MetaCollections] = existing
		}
		if GetString(f.Metadata, MetaCollection) == "" {
			f.Metadata[MetaCollection] = name
		}
	}

	// 2. Explicit metadata.collection assignment, string or list of names.
	for _, f := range store.Files() {
		for _, name := range StringsOfAny(f.Metadata[MetaCollection]) {
			add(name, f)
		}
	}

	// 3. Pattern-matched membership for configured collections.
	for name, cfg := range s.Configs {
		if len(cfg.Pattern) == 0 {
			continue
		}
		for _, f := range store.Files() {
			if glob.MatchAny(cfg.Pattern, f.Path) {
				add(name, f)
			}
		}
	}

	// 5-6. Sort and limit each collection.
	result := make(map[string][]pipelinectx.CollectionItem, len(states))
	for name, st := range states {
		items := st.items
		sortBy := st.cfg.sortBy()
		sort.SliceStable(items, func(i, j int) bool {
			c := compareSortValues(items[i].Metadata[sortBy], items[j].Metadata[sortBy])
			if st.cfg.Reverse {
				return c > 0
			}
			return c < 0
		})
		if st.cfg.Limit > 0 && len(items) > st.cfg.Limit {
			items = items[:st.cfg.Limit]
		}
		result[name] = items
	}

	// 7. Assign into global metadata (mirrored as top-level keys too).
	ctx.SetCollections(result)
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}

// compareSortValues orders two metadata values for sorting: Date
// arithmetic for time.Time, numeric compare for numbers, localeCompare
// (byte-wise) for strings, undefined (nil/absent) sorts last.
func compareSortValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs)
		}
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch vv := v.(type) {
	case int:
		return float64(vv), true
	case int64:
		return float64(vv), true
	case float64:
		return vv, true
	}
	return 0, false
}
