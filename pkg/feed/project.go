package feed

import (
	"fmt"
	"strings"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

// project builds the externally visible item from a ranked story. This is
// the only place the top-N gate is applied: image and prompt fields of
// non-top items are dropped here no matter what upstream stored.
func project(r ranked, norm *Normalizer, cfg Config) RankedFeedItem {
	item := RankedFeedItem{
		ID:              r.ID,
		Rank:            r.rank,
		IsTopN:          r.rank <= cfg.TopN,
		Title:           r.Title,
		Summary:         r.Summary,
		SummaryEN:       r.SummaryEN,
		Category:        r.Category,
		PlatformName:    platformName(r.StoryRecord),
		ChannelName:     r.ChannelName,
		PublishedAt:     r.BestTimestamp(),
		PopularityScore: r.PopularityOrZero(),
		ViewCount:       ParseCount(r.ViewCountRaw),
		LikeCount:       ParseCount(r.LikeCountRaw),
		CommentCount:    ParseCount(r.CommentCountRaw),
		SourceURL:       sourceURL(r.StoryRecord, cfg.SiteBaseURL),
	}

	item.GrowthRateValue, item.GrowthRateLabel = norm.GrowthRate(r.GrowthRateRaw)

	if item.IsTopN {
		item.ImageURL = r.AIImageURL
		item.AIPrompt = r.AIPrompt
	}

	return item
}

// sourceURL resolves the canonical link for a story. The chain always
// terminates: explicit URL, then a platform watch URL synthesized from the
// stored identifier, then the internal story page.
func sourceURL(r story.StoryRecord, baseURL string) string {
	if u := strings.TrimSpace(r.SourceURL); u != "" {
		return u
	}

	if id := platformID(r); id != "" {
		switch platformName(r) {
		case story.PlatformYouTube:
			return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
		case story.PlatformTikTok:
			return fmt.Sprintf("https://www.tiktok.com/embed/v2/%s", id)
		}
	}

	return fmt.Sprintf("%s/story/%s", strings.TrimRight(baseURL, "/"), r.ID)
}

// platformID returns the bare platform-native identifier, preferring the
// external id over the video id and stripping any "platform:" prefix.
func platformID(r story.StoryRecord) string {
	id := r.PlatformExternalID
	if id == "" {
		id = r.PlatformVideoID
	}
	if _, rest, ok := splitPlatformPrefix(id); ok {
		return rest
	}
	return id
}

// platformName returns the stored platform name, inferring one from
// identifier prefixes when absent, else the generic default.
func platformName(r story.StoryRecord) string {
	if r.PlatformName != "" {
		return r.PlatformName
	}
	for _, id := range []string{r.PlatformExternalID, r.PlatformVideoID} {
		prefix, _, ok := splitPlatformPrefix(id)
		if !ok {
			continue
		}
		switch prefix {
		case "youtube", "yt":
			return story.PlatformYouTube
		case "tiktok", "tt":
			return story.PlatformTikTok
		}
	}
	return story.PlatformDefault
}

func splitPlatformPrefix(id string) (prefix, rest string, ok bool) {
	i := strings.Index(id, ":")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return strings.ToLower(id[:i]), id[i+1:], true
}
