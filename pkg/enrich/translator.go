package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

const batchPrompt = `You are a translator for a trending-stories site. You receive a batch of story summaries, mostly in Thai, and produce concise English summaries.

For each story return:
1. "id": the story ID, unchanged.
2. "summary_en": a faithful English summary of the story in at most two sentences. If the summary is already in English, return a lightly cleaned-up version.

Stories to translate:
%s

Respond with a JSON array. Each element must have: "id" (string) and "summary_en" (string).
Example: [{"id":"youtube:abc123","summary_en":"A street vendor in Bangkok goes viral for..."}]

Return ONLY the JSON array, no other text.`

// Translator fills in missing English summaries via an LLM batch call.
type Translator struct {
	client   *http.Client
	provider string // "openai" or "anthropic"
	model    string
	apiKey   string
	baseURL  string
}

// Translation is the per-story result from the LLM.
type Translation struct {
	ID        string `json:"id"`
	SummaryEN string `json:"summary_en"`
}

// NewTranslator creates a new translator.
func NewTranslator(provider, model, apiKey, baseURL string) *Translator {
	if model == "" {
		switch provider {
		case "anthropic":
			model = "claude-sonnet-4-20250514"
		default:
			model = "gpt-4o-mini"
		}
	}
	return &Translator{
		client:   &http.Client{Timeout: 60 * time.Second},
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		baseURL:  baseURL,
	}
}

// TranslateSummaries sends all stories lacking an English summary in one
// batch and returns the translations. Stories that already carry one are
// skipped.
func (t *Translator) TranslateSummaries(ctx context.Context, records []story.StoryRecord) ([]Translation, error) {
	var lines []string
	for _, r := range records {
		if r.SummaryEN != "" || (r.Summary == "" && r.Title == "") {
			continue
		}
		line := fmt.Sprintf("- ID: %s | Title: %s", r.ID, r.Title)
		if r.Summary != "" {
			summary := r.Summary
			if len(summary) > 300 {
				summary = summary[:300] + "..."
			}
			line += " | Summary: " + summary
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(batchPrompt, strings.Join(lines, "\n"))

	var raw string
	var err error

	switch t.provider {
	case "anthropic":
		raw, err = t.callAnthropic(ctx, prompt)
	default:
		raw, err = t.callOpenAI(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	// Parse JSON response, tolerating markdown code block wrapping.
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if idx := strings.Index(raw[3:], "\n"); idx >= 0 {
			raw = raw[3+idx+1:]
		}
		if strings.HasSuffix(raw, "```") {
			raw = raw[:len(raw)-3]
		}
		raw = strings.TrimSpace(raw)
	}

	var results []Translation
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, fmt.Errorf("parse translator response: %w\nraw: %s", err, truncateStr(raw, 500))
	}

	return results, nil
}

func (t *Translator) callOpenAI(ctx context.Context, prompt string) (string, error) {
	baseURL := t.baseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	payload := map[string]any{
		"model": t.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.1,
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("openai status %d: %v", resp.StatusCode, errResp)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return result.Choices[0].Message.Content, nil
}

func (t *Translator) callAnthropic(ctx context.Context, prompt string) (string, error) {
	baseURL := t.baseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	payload := map[string]any{
		"model":      t.model,
		"max_tokens": 4096,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", t.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("anthropic status %d: %v", resp.StatusCode, errResp)
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}

	if len(result.Content) == 0 {
		return "", fmt.Errorf("anthropic: no content returned")
	}
	return result.Content[0].Text, nil
}

func truncateStr(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
