package source

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
	"github.com/mmcdole/gofeed"
)

// RSSFeed is a named RSS/Atom feed URL.
type RSSFeed struct {
	Name string
	URL  string
}

// RSS collects news stories from RSS/Atom feeds. Feed entries have no
// engagement counters; their raw metric fields stay empty and normalize
// to zero downstream.
type RSS struct {
	client *http.Client
	parser *gofeed.Parser
	feeds  []RSSFeed
	filter *Filter
}

// NewRSS creates a new RSS collector.
func NewRSS(feeds []RSSFeed, filter *Filter) *RSS {
	return &RSS{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
		feeds:  feeds,
		filter: filter,
	}
}

func (r *RSS) Name() string { return story.PlatformNews }

func (r *RSS) Collect(ctx context.Context) ([]story.StoryRecord, error) {
	var all []story.StoryRecord

	for _, feed := range r.feeds {
		records, err := r.collectFeed(ctx, feed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  rss feed %s error: %v\n", feed.Name, err)
			continue
		}
		all = append(all, records...)
	}

	return all, nil
}

func (r *RSS) collectFeed(ctx context.Context, feed RSSFeed) ([]story.StoryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create rss request %s: %w", feed.Name, err)
	}
	req.Header.Set("User-Agent", "trendsiam/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rss %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss %s status %d", feed.Name, resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse rss %s: %w", feed.Name, err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(-48 * time.Hour)
	var records []story.StoryRecord

	for _, entry := range parsed.Items {
		if entry.Title == "" {
			continue
		}

		var published time.Time
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			published = entry.UpdatedParsed.UTC()
		}
		if !published.IsZero() && published.Before(cutoff) {
			continue
		}

		if r.filter != nil && !r.filter.Matches(entry.Title+" "+entry.Description) {
			continue
		}

		link := entry.Link
		if link == "" && len(entry.Links) > 0 {
			link = entry.Links[0]
		}

		category := ""
		if len(entry.Categories) > 0 {
			category = entry.Categories[0]
		}

		records = append(records, story.StoryRecord{
			ID:                 fmt.Sprintf("rss:%s:%s", feed.Name, entry.GUID),
			Title:              entry.Title,
			Summary:            truncate(entry.Description, 500),
			Category:           category,
			PlatformName:       story.PlatformNews,
			ChannelName:        feed.Name,
			PlatformExternalID: entry.GUID,
			PublishedAt:        published,
			SourceURL:          link,
			CreatedAt:          now,
		})
	}

	return records, nil
}
