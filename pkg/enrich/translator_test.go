package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

func TestTranslateSummaries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{
					"content": `[{"id":"youtube:a","summary_en":"A vendor goes viral."}]`,
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	tr := NewTranslator("openai", "gpt-4o-mini", "test-key", srv.URL)
	records := []story.StoryRecord{
		{ID: "youtube:a", Title: "title", Summary: "สรุปภาษาไทย"},
		{ID: "youtube:b", Title: "title", Summary: "x", SummaryEN: "already translated"},
	}

	got, err := tr.TranslateSummaries(context.Background(), records)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(got) != 1 || got[0].ID != "youtube:a" {
		t.Fatalf("results = %+v, want one translation for youtube:a", got)
	}
	if got[0].SummaryEN != "A vendor goes viral." {
		t.Errorf("SummaryEN = %q", got[0].SummaryEN)
	}
}

func TestTranslateSummariesCodeBlockWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{
					"content": "```json\n[{\"id\":\"a\",\"summary_en\":\"ok\"}]\n```",
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	tr := NewTranslator("openai", "", "test-key", srv.URL)
	records := []story.StoryRecord{{ID: "a", Title: "t", Summary: "s"}}

	got, err := tr.TranslateSummaries(context.Background(), records)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(got) != 1 || got[0].SummaryEN != "ok" {
		t.Fatalf("results = %+v", got)
	}
}

func TestTranslateSummariesNothingToDo(t *testing.T) {
	tr := NewTranslator("openai", "", "test-key", "http://unreachable.invalid")
	records := []story.StoryRecord{{ID: "a", Title: "t", SummaryEN: "done"}}

	got, err := tr.TranslateSummaries(context.Background(), records)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != nil {
		t.Errorf("expected no call and no results, got %+v", got)
	}
}
