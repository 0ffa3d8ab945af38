package story

import (
	"testing"
	"time"
)

func TestBestTimestamp(t *testing.T) {
	published := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	ingested := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)

	withPublish := StoryRecord{PublishedAt: published, CreatedAt: ingested}
	if got := withPublish.BestTimestamp(); !got.Equal(published) {
		t.Errorf("BestTimestamp = %v, want publish time %v", got, published)
	}

	withoutPublish := StoryRecord{CreatedAt: ingested}
	if got := withoutPublish.BestTimestamp(); !got.Equal(ingested) {
		t.Errorf("BestTimestamp = %v, want ingestion time %v", got, ingested)
	}
}

func TestPopularityOrZero(t *testing.T) {
	score := 42.5
	if got := (StoryRecord{PopularityScore: &score}).PopularityOrZero(); got != 42.5 {
		t.Errorf("PopularityOrZero = %v, want 42.5", got)
	}
	if got := (StoryRecord{}).PopularityOrZero(); got != 0 {
		t.Errorf("PopularityOrZero = %v, want 0 for missing score", got)
	}
}
