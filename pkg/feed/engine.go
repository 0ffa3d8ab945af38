package feed

import (
	"sort"
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

// Engine turns a snapshot of stored stories into the ranked home feed.
// It holds no state between calls: Build is a pure function of its inputs
// and the configured window sizes, so one Engine can serve concurrent
// requests.
type Engine struct {
	cfg  Config
	norm *Normalizer
}

// New creates an engine, filling unset config fields with defaults.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{cfg: cfg, norm: NewNormalizer(cfg.GrowthThresholds)}
}

// Config returns the effective configuration after defaulting.
func (e *Engine) Config() Config {
	return e.cfg
}

// Build selects, ranks, and projects the feed for the given wall-clock
// time. An empty result means no stories qualified; it is not an error.
func (e *Engine) Build(records []story.StoryRecord, now time.Time) []RankedFeedItem {
	cands := selectWindow(records, now, e.cfg)
	if len(cands) == 0 {
		return nil
	}

	items := make([]RankedFeedItem, 0, len(cands))
	for _, r := range rankCandidates(cands) {
		items = append(items, project(r, e.norm, e.cfg))
	}

	// Output contract: rank ascending, ties by id ascending. rankCandidates
	// already yields this order; keep it explicit for the callers relying
	// on it.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rank != items[j].Rank {
			return items[i].Rank < items[j].Rank
		}
		return items[i].ID < items[j].ID
	})

	return items
}
