package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

// YouTube collects the most-popular videos chart for a region. Statistics
// are stored exactly as the API returns them (string counters); typing
// happens in the feed engine.
type YouTube struct {
	client     *http.Client
	apiKey     string
	regionCode string
	maxResults int
	filter     *Filter
}

// NewYouTube creates a new YouTube collector.
func NewYouTube(apiKey, regionCode string, maxResults int, filter *Filter) *YouTube {
	if regionCode == "" {
		regionCode = "TH"
	}
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 50
	}
	return &YouTube{
		client:     &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		regionCode: regionCode,
		maxResults: maxResults,
		filter:     filter,
	}
}

func (y *YouTube) Name() string { return story.PlatformYouTube }

func (y *YouTube) Collect(ctx context.Context) ([]story.StoryRecord, error) {
	if y.apiKey == "" {
		return nil, fmt.Errorf("youtube: API key required (set YOUTUBE_API_KEY)")
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", y.regionCode)
	params.Set("maxResults", fmt.Sprintf("%d", y.maxResults))
	params.Set("key", y.apiKey)

	reqURL := "https://www.googleapis.com/youtube/v3/videos?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create youtube request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch youtube chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube chart status %d", resp.StatusCode)
	}

	var result ytVideoResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode youtube chart: %w", err)
	}

	now := time.Now().UTC()
	var records []story.StoryRecord

	for _, video := range result.Items {
		if video.ID == "" || video.Snippet.Title == "" {
			continue
		}
		if y.filter != nil && !y.filter.Matches(video.Snippet.Title+" "+video.Snippet.Description) {
			continue
		}

		records = append(records, story.StoryRecord{
			ID:              fmt.Sprintf("youtube:%s", video.ID),
			Title:           video.Snippet.Title,
			Summary:         truncate(video.Snippet.Description, 500),
			Category:        video.Snippet.CategoryID,
			PlatformName:    story.PlatformYouTube,
			ChannelName:     video.Snippet.ChannelTitle,
			PlatformVideoID: video.ID,
			PublishedAt:     video.Snippet.PublishedAt,
			ViewCountRaw:    video.Statistics.ViewCount,
			LikeCountRaw:    video.Statistics.LikeCount,
			CommentCountRaw: video.Statistics.CommentCount,
			SourceURL:       fmt.Sprintf("https://www.youtube.com/watch?v=%s", video.ID),
			CreatedAt:       now,
		})
	}

	return records, nil
}

type ytVideoResult struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			CategoryID   string    `json:"categoryId"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}
