package story

import "time"

// Platform names as stored on records and used for URL synthesis.
const (
	PlatformYouTube = "YouTube"
	PlatformTikTok  = "TikTok"
	PlatformNews    = "News"
	PlatformDefault = "Video"
)

// StoryRecord is the standardized shape of one ingested trending story.
// Counter and growth fields are kept exactly as the upstream platform
// reported them (free text); typed values are derived at feed-build time.
type StoryRecord struct {
	ID                 string     `json:"id" db:"id"`
	Title              string     `json:"title" db:"title"`
	Summary            string     `json:"summary" db:"summary"`
	SummaryEN          string     `json:"summary_en,omitempty" db:"summary_en"`
	Category           string     `json:"category" db:"category"`
	PlatformName       string     `json:"platform_name" db:"platform_name"`
	ChannelName        string     `json:"channel_name" db:"channel_name"`
	PlatformVideoID    string     `json:"platform_video_id,omitempty" db:"platform_video_id"`
	PlatformExternalID string     `json:"platform_external_id,omitempty" db:"platform_external_id"`
	PublishedAt        time.Time  `json:"published_at" db:"published_at"`
	PopularityScore    *float64   `json:"popularity_score,omitempty" db:"popularity_score"`
	ViewCountRaw       string     `json:"view_count_raw,omitempty" db:"view_count_raw"`
	LikeCountRaw       string     `json:"like_count_raw,omitempty" db:"like_count_raw"`
	CommentCountRaw    string     `json:"comment_count_raw,omitempty" db:"comment_count_raw"`
	GrowthRateRaw      string     `json:"growth_rate_raw,omitempty" db:"growth_rate_raw"`
	AIImageURL         string     `json:"ai_image_url,omitempty" db:"ai_image_url"`
	AIPrompt           string     `json:"ai_prompt,omitempty" db:"ai_prompt"`
	SourceURL          string     `json:"source_url,omitempty" db:"source_url"`
	Alerted            bool       `json:"alerted" db:"alerted"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// BestTimestamp returns the original publish time when known, otherwise
// the ingestion time. Every stored record has a non-zero CreatedAt.
func (r StoryRecord) BestTimestamp() time.Time {
	if !r.PublishedAt.IsZero() {
		return r.PublishedAt
	}
	return r.CreatedAt
}

// PopularityOrZero returns the precomputed ranking score, treating a
// missing score as 0 rather than excluding the record.
func (r StoryRecord) PopularityOrZero() float64 {
	if r.PopularityScore == nil {
		return 0
	}
	return *r.PopularityScore
}
