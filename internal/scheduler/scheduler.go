package scheduler

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ArayainWood/trendsiam/internal/store"
	"github.com/ArayainWood/trendsiam/pkg/alert"
	"github.com/ArayainWood/trendsiam/pkg/enrich"
	"github.com/ArayainWood/trendsiam/pkg/feed"
	"github.com/ArayainWood/trendsiam/pkg/source"
	"github.com/ArayainWood/trendsiam/pkg/story"
)

// Scheduler runs periodic collection, enrichment, and top-story alerting.
type Scheduler struct {
	store      store.Store
	sources    []source.Source
	engine     *feed.Engine
	translator *enrich.Translator // optional, nil = disabled
	alertMgr   *alert.Manager
	collectInt time.Duration
	enrichInt  time.Duration
	retention  time.Duration
}

// New creates a new scheduler.
func New(
	s store.Store,
	sources []source.Source,
	engine *feed.Engine,
	translator *enrich.Translator,
	alertMgr *alert.Manager,
	collectInt, enrichInt time.Duration,
	retentionDays int,
) *Scheduler {
	if collectInt == 0 {
		collectInt = 30 * time.Minute
	}
	if enrichInt == 0 {
		enrichInt = time.Hour
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &Scheduler{
		store:      s,
		sources:    sources,
		engine:     engine,
		translator: translator,
		alertMgr:   alertMgr,
		collectInt: collectInt,
		enrichInt:  enrichInt,
		retention:  time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	collectTicker := time.NewTicker(s.collectInt)
	enrichTicker := time.NewTicker(s.enrichInt)
	defer collectTicker.Stop()
	defer enrichTicker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial collection...")
	s.collectAll(ctx)
	s.alertTopStories(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (collect every %s, enrich every %s)\n",
		s.collectInt, s.enrichInt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-collectTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: collecting...")
			s.collectAll(ctx)
			s.alertTopStories(ctx)
			s.prune(ctx)
		case <-enrichTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: enriching...")
			s.enrichSummaries(ctx)
		}
	}
}

// collectAll pulls from every source, scores and stores the records, and
// refreshes growth rates from popularity snapshots.
func (s *Scheduler) collectAll(ctx context.Context) {
	total := 0
	for _, src := range s.sources {
		records, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
			continue
		}

		for i := range records {
			if score := popularityOf(&records[i]); score > 0 {
				records[i].PopularityScore = &score
			}
		}

		if err := s.store.UpsertStories(ctx, records); err != nil {
			fmt.Fprintf(os.Stderr, "  %s store error: %v\n", src.Name(), err)
			continue
		}

		for i := range records {
			_ = s.store.AddSnapshot(ctx, records[i].ID, records[i].PopularityOrZero())
			s.refreshGrowthRate(ctx, records[i].ID)
		}

		fmt.Fprintf(os.Stderr, "  %s: %d stories\n", src.Name(), len(records))
		total += len(records)
	}
	fmt.Fprintf(os.Stderr, "  total: %d stories\n", total)
}

// popularityOf derives a 0-100 popularity score from raw engagement
// counters on a log scale. Views dominate; likes and comments nudge.
func popularityOf(r *story.StoryRecord) float64 {
	views := float64(feed.ParseCount(r.ViewCountRaw))
	likes := float64(feed.ParseCount(r.LikeCountRaw))
	comments := float64(feed.ParseCount(r.CommentCountRaw))

	engagement := views + 10*likes + 25*comments
	if engagement <= 0 {
		return 0
	}

	// log10(1e7) = 7 maps ten million engagement points to 100.
	score := math.Log10(engagement+1) / 7 * 100
	if score > 100 {
		score = 100
	}
	return score
}

// refreshGrowthRate rewrites a story's raw growth field from the last 24h
// of popularity snapshots, as a signed percentage string the feed's
// normalizer understands.
func (s *Scheduler) refreshGrowthRate(ctx context.Context, storyID string) {
	snaps, err := s.store.GetSnapshots(ctx, storyID, time.Now().Add(-24*time.Hour))
	if err != nil || len(snaps) < 2 {
		return
	}

	first := snaps[0]
	last := snaps[len(snaps)-1]
	if first.Popularity <= 0 {
		return
	}

	pct := (last.Popularity - first.Popularity) / first.Popularity * 100
	_ = s.store.SetGrowthRate(ctx, storyID, fmt.Sprintf("%.1f%%", pct))
}

// alertTopStories rebuilds the feed and notifies about stories that
// entered the top ranks since the last run.
func (s *Scheduler) alertTopStories(ctx context.Context) {
	if s.alertMgr == nil || !s.alertMgr.HasNotifiers() {
		return
	}

	now := time.Now()
	cfg := s.engine.Config()
	records, err := s.store.ListStories(ctx, store.ListOpts{
		Since: now.AddDate(0, 0, -(cfg.FallbackWindowDays + 1)),
		Limit: 2000,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "  feed rebuild error: %v\n", err)
		return
	}

	items := s.engine.Build(records, now)
	var top []feed.RankedFeedItem
	for _, item := range items {
		if item.IsTopN {
			top = append(top, item)
		}
	}

	for _, item := range top {
		rec, err := s.store.GetStory(ctx, item.ID)
		if err != nil || rec.Alerted {
			continue
		}

		notification := &alert.Notification{
			Title: item.Title,
			Body:  fmt.Sprintf("Entered the top %d on %s", cfg.TopN, item.PlatformName),
			Rank:  item.Rank,
			Score: item.PopularityScore,
			Items: top,
		}

		if err := s.alertMgr.Broadcast(ctx, notification); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error for %q: %v\n", item.Title, err)
			continue
		}

		_ = s.store.MarkAlerted(ctx, item.ID)
		fmt.Fprintf(os.Stderr, "  alerted: %s (rank %d)\n", item.Title, item.Rank)
	}
}

// enrichSummaries batch-translates recent stories that lack an English
// summary.
func (s *Scheduler) enrichSummaries(ctx context.Context) {
	if s.translator == nil {
		return
	}

	records, err := s.store.ListStories(ctx, store.ListOpts{
		Since: time.Now().AddDate(0, 0, -2),
		Limit: 200,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "  enrich list error: %v\n", err)
		return
	}

	translations, err := s.translator.TranslateSummaries(ctx, records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  enrich error: %v\n", err)
		return
	}

	for _, tr := range translations {
		if tr.SummaryEN == "" {
			continue
		}
		if err := s.store.SetSummaryEN(ctx, tr.ID, tr.SummaryEN); err != nil {
			fmt.Fprintf(os.Stderr, "  enrich store error: %v\n", err)
		}
	}

	if len(translations) > 0 {
		fmt.Fprintf(os.Stderr, "  enriched %d stories\n", len(translations))
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	n, err := s.store.PruneStories(ctx, time.Now().Add(-s.retention))
	if err != nil {
		fmt.Fprintf(os.Stderr, "  prune error: %v\n", err)
		return
	}
	if n > 0 {
		fmt.Fprintf(os.Stderr, "  pruned %d expired stories\n", n)
	}
}
