package feed

import (
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

// GrowthLabel is the fixed vocabulary of growth classifications shown on
// the feed. Unparsable growth data falls back to GrowthGrowing rather than
// an "insufficient data" state.
type GrowthLabel string

const (
	GrowthViral     GrowthLabel = "Viral"
	GrowthHigh      GrowthLabel = "High"
	GrowthModerate  GrowthLabel = "Moderate"
	GrowthGrowing   GrowthLabel = "Growing"
	GrowthStable    GrowthLabel = "Stable"
	GrowthDeclining GrowthLabel = "Declining"
)

// GrowthThreshold maps a numeric growth floor to a label. Thresholds are
// evaluated in order, highest floor first.
type GrowthThreshold struct {
	Floor float64
	Label GrowthLabel
}

// DefaultGrowthThresholds is the positive-tier classification ladder.
// Values at or above a floor take that tier's label.
func DefaultGrowthThresholds() []GrowthThreshold {
	return []GrowthThreshold{
		{Floor: 1_000_000, Label: GrowthViral},
		{Floor: 100_000, Label: GrowthHigh},
		{Floor: 10_000, Label: GrowthModerate},
	}
}

// Config controls feed building. The zero value is not usable; pass it
// through withDefaults via New.
type Config struct {
	// TopN is how many leading ranks expose the AI image and prompt.
	TopN int
	// MinPrimaryWindowSize is the candidate count below which the
	// selector widens from "today" to the fallback window.
	MinPrimaryWindowSize int
	// FallbackWindowDays is the historical lookback, excluding today.
	FallbackWindowDays int
	// Timezone is the reference zone for computing "today". Never
	// server-local time.
	Timezone *time.Location
	// GrowthThresholds orders (floor, label) pairs highest first.
	GrowthThresholds []GrowthThreshold
	// SiteBaseURL prefixes the internal fallback story URL.
	SiteBaseURL string
}

func (c Config) withDefaults() Config {
	if c.TopN <= 0 {
		c.TopN = 3
	}
	if c.MinPrimaryWindowSize <= 0 {
		c.MinPrimaryWindowSize = 20
	}
	if c.FallbackWindowDays <= 0 {
		c.FallbackWindowDays = 60
	}
	if c.Timezone == nil {
		c.Timezone = DefaultTimezone()
	}
	if len(c.GrowthThresholds) == 0 {
		c.GrowthThresholds = DefaultGrowthThresholds()
	}
	if c.SiteBaseURL == "" {
		c.SiteBaseURL = "https://trendsiam.app"
	}
	return c
}

// DefaultTimezone returns the reference zone used when none is configured.
func DefaultTimezone() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		return time.UTC
	}
	return loc
}

// RankedFeedItem is the externally visible projection of one story.
// ImageURL and AIPrompt are present only on top-N items; SourceURL is
// never empty.
type RankedFeedItem struct {
	ID              string      `json:"id"`
	Rank            int         `json:"rank"`
	IsTopN          bool        `json:"is_top_n"`
	Title           string      `json:"title"`
	Summary         string      `json:"summary,omitempty"`
	SummaryEN       string      `json:"summary_en,omitempty"`
	Category        string      `json:"category,omitempty"`
	PlatformName    string      `json:"platform_name"`
	ChannelName     string      `json:"channel_name,omitempty"`
	PublishedAt     time.Time   `json:"published_at"`
	PopularityScore float64     `json:"popularity_score"`
	ViewCount       int64       `json:"view_count"`
	LikeCount       int64       `json:"like_count"`
	CommentCount    int64       `json:"comment_count"`
	GrowthRateValue *float64    `json:"growth_rate_value,omitempty"`
	GrowthRateLabel GrowthLabel `json:"growth_rate_label"`
	ImageURL        string      `json:"image_url,omitempty"`
	AIPrompt        string      `json:"ai_prompt,omitempty"`
	SourceURL       string      `json:"source_url"`
}

// candidate is a story tagged with its originating freshness window.
// The tag is carried through ranking as the leading sort key instead of
// re-querying or mutating shared state.
type candidate struct {
	story.StoryRecord
	priority int // 1 = primary (today), 2 = fallback
}
