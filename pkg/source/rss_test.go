package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

func rssBody(pubDate time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Test Feed</title>
  <item>
    <title>Flood warnings issued for northern provinces</title>
    <link>https://news.example.com/floods</link>
    <guid>floods-001</guid>
    <description>Heavy rain expected through the weekend.</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Casino raid</title>
    <link>https://news.example.com/raid</link>
    <guid>raid-002</guid>
    <description>A gambling den was raided.</description>
    <pubDate>%s</pubDate>
  </item>
</channel>
</rss>`, pubDate.Format(time.RFC1123Z), pubDate.Format(time.RFC1123Z))
}

func TestRSSCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssBody(time.Now().UTC()))
	}))
	defer srv.Close()

	rss := NewRSS([]RSSFeed{{Name: "Test Feed", URL: srv.URL}}, nil)
	records, err := rss.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if r.PlatformName != story.PlatformNews {
		t.Errorf("PlatformName = %q, want %q", r.PlatformName, story.PlatformNews)
	}
	if r.ChannelName != "Test Feed" {
		t.Errorf("ChannelName = %q, want feed name", r.ChannelName)
	}
	if r.SourceURL != "https://news.example.com/floods" {
		t.Errorf("SourceURL = %q", r.SourceURL)
	}
	if r.Title == "" || r.ID == "" {
		t.Error("records must carry a title and id")
	}
	if r.ViewCountRaw != "" {
		t.Error("rss entries have no counters; raw fields must stay empty")
	}
}

func TestRSSCollectAppliesFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(time.Now().UTC()))
	}))
	defer srv.Close()

	rss := NewRSS([]RSSFeed{{Name: "Test Feed", URL: srv.URL}}, NewFilter(nil, []string{"gambling"}))
	records, err := rss.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 after exclusion", len(records))
	}
	if records[0].ID != "rss:Test Feed:floods-001" {
		t.Errorf("unexpected surviving record %q", records[0].ID)
	}
}

func TestRSSCollectSkipsStaleEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(time.Now().UTC().Add(-72*time.Hour)))
	}))
	defer srv.Close()

	rss := NewRSS([]RSSFeed{{Name: "Test Feed", URL: srv.URL}}, nil)
	records, err := rss.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("entries older than the ingest cutoff should be skipped, got %d", len(records))
	}
}

func TestRSSCollectUnreachableFeedIsNotFatal(t *testing.T) {
	rss := NewRSS([]RSSFeed{{Name: "Broken", URL: "http://127.0.0.1:1/feed"}}, nil)
	records, err := rss.Collect(context.Background())
	if err != nil {
		t.Fatalf("a broken feed should be logged and skipped, got error %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records from a broken feed", len(records))
	}
}
