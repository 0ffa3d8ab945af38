package feed

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

func TestBuildEndToEnd(t *testing.T) {
	engine := New(Config{Timezone: bangkok})
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, bangkok)

	var records []story.StoryRecord
	for i := 0; i < 25; i++ {
		score := float64(1000 - i)
		r := storyAt(fmt.Sprintf("s%02d", i), now.Add(-time.Duration(i)*time.Minute))
		r.PopularityScore = &score
		r.AIImageURL = fmt.Sprintf("https://cdn.example.com/%02d.png", i)
		r.AIPrompt = fmt.Sprintf("prompt %02d", i)
		records = append(records, r)
	}

	items := engine.Build(records, now)
	if len(items) != 25 {
		t.Fatalf("expected 25 ranked items, got %d", len(items))
	}

	for i, item := range items {
		if item.Rank != i+1 {
			t.Errorf("position %d: rank = %d, want %d (dense, no gaps)", i, item.Rank, i+1)
		}
		if item.SourceURL == "" {
			t.Errorf("item %s: empty source url", item.ID)
		}
		switch {
		case item.Rank <= 3:
			if !item.IsTopN || item.ImageURL == "" || item.AIPrompt == "" {
				t.Errorf("rank %d should carry image and prompt", item.Rank)
			}
		default:
			if item.IsTopN || item.ImageURL != "" || item.AIPrompt != "" {
				t.Errorf("rank %d must not carry image or prompt", item.Rank)
			}
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	engine := New(Config{Timezone: bangkok})
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, bangkok)

	var records []story.StoryRecord
	for i := 0; i < 30; i++ {
		r := storyAt(fmt.Sprintf("s%02d", i), now.Add(-time.Duration(i%5)*time.Hour))
		if i%3 != 0 {
			score := float64(i % 7)
			r.PopularityScore = &score
		}
		records = append(records, r)
	}

	first := engine.Build(records, now)
	second := engine.Build(records, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("building the same snapshot twice must yield identical output")
	}
}

func TestBuildFreshnessFallbackOrdering(t *testing.T) {
	engine := New(Config{Timezone: bangkok})
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, bangkok)

	var records []story.StoryRecord
	for i := 0; i < 5; i++ {
		score := 1.0
		r := storyAt(fmt.Sprintf("today-%d", i), now.Add(-time.Duration(i)*time.Hour))
		r.PopularityScore = &score
		records = append(records, r)
	}
	for i := 0; i < 5; i++ {
		score := 500.0 // far higher than any today score
		r := storyAt(fmt.Sprintf("old-%d", i), now.AddDate(0, 0, -(i+1)))
		r.PopularityScore = &score
		records = append(records, r)
	}

	items := engine.Build(records, now)
	if len(items) != 10 {
		t.Fatalf("expected today + fallback candidates, got %d items", len(items))
	}
	for i := 0; i < 5; i++ {
		if items[i].ID[:6] != "today-" {
			t.Fatalf("position %d: %s — all today items must rank ahead of fallback items", i, items[i].ID)
		}
	}
	for i := 5; i < 10; i++ {
		if items[i].ID[:4] != "old-" {
			t.Fatalf("position %d: %s — fallback items must follow today items", i, items[i].ID)
		}
	}
}

func TestBuildEmptyWindows(t *testing.T) {
	engine := New(Config{Timezone: bangkok})
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, bangkok)

	// Only stories far outside the lookback: a legitimate empty feed.
	records := []story.StoryRecord{storyAt("ancient", now.AddDate(-1, 0, 0))}
	if items := engine.Build(records, now); len(items) != 0 {
		t.Fatalf("expected empty feed, got %d items", len(items))
	}
}

func TestBuildMalformedRecordDoesNotAbort(t *testing.T) {
	engine := New(Config{Timezone: bangkok})
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, bangkok)

	bad := storyAt("bad", now)
	bad.ViewCountRaw = "???"
	bad.GrowthRateRaw = "\x00garbage\x00"
	good := storyAt("good", now)
	good.ViewCountRaw = "42"

	items := engine.Build([]story.StoryRecord{bad, good}, now)
	if len(items) != 2 {
		t.Fatalf("one malformed record must not abort the feed, got %d items", len(items))
	}
	for _, item := range items {
		if item.ID == "bad" && (item.ViewCount != 0 || item.GrowthRateLabel == "") {
			t.Error("malformed fields should resolve to defaults")
		}
	}
}

func TestBuildOutputOrderedByRankThenID(t *testing.T) {
	engine := New(Config{Timezone: bangkok})
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, bangkok)

	records := []story.StoryRecord{
		storyAt("z", now), storyAt("a", now), storyAt("m", now),
	}

	items := engine.Build(records, now)
	want := []string{"a", "m", "z"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("output order = %v-th item %s, want %s", i, items[i].ID, id)
		}
	}
}
