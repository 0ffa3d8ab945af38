package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ArayainWood/trendsiam/internal/store"
	"github.com/ArayainWood/trendsiam/pkg/feed"
	"github.com/ArayainWood/trendsiam/pkg/source"
)

// Server provides the HTTP API.
type Server struct {
	store   store.Store
	engine  *feed.Engine
	sources []source.Source
	port    int
}

// New creates a new HTTP server.
func New(s store.Store, engine *feed.Engine, sources []source.Source, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:   s,
		engine:  engine,
		sources: sources,
		port:    port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/feed", s.handleFeed)
	mux.HandleFunc("/api/v1/stories", s.handleStories)
	mux.HandleFunc("/api/v1/platforms", s.handlePlatforms)
	mux.HandleFunc("/api/v1/collect", s.handleCollect)

	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("trendsiam server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BuildFeed loads the candidate window from the store and runs the ranking
// engine. Used by the feed handler and the scheduler.
func (s *Server) BuildFeed(ctx context.Context, now time.Time) ([]feed.RankedFeedItem, error) {
	cfg := s.engine.Config()
	since := now.AddDate(0, 0, -(cfg.FallbackWindowDays + 1))

	records, err := s.store.ListStories(ctx, store.ListOpts{Since: since, Limit: 2000})
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	return s.engine.Build(records, now), nil
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	items, err := s.BuildFeed(r.Context(), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit >= 0 && limit < len(items) {
			items = items[:limit]
		}
	}

	// An empty feed is a legitimate "no stories today" state, not an error.
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  items,
		"count": len(items),
	})
}

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	opts := store.ListOpts{Limit: 100}
	if platform := r.URL.Query().Get("platform"); platform != "" {
		opts.Platform = platform
	}
	if since := r.URL.Query().Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			opts.Since = t
		}
	}

	stories, err := s.store.ListStories(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  stories,
		"count": len(stories),
	})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	counts, err := s.store.CountStoriesByPlatform(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	type platformInfo struct {
		Name    string `json:"name"`
		Stories int    `json:"stories"`
	}

	var infos []platformInfo
	for name, count := range counts {
		infos = append(infos, platformInfo{Name: name, Stories: count})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  infos,
		"count": len(infos),
	})
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	ctx := r.Context()
	results := make(map[string]int)
	var errs []string

	for _, src := range s.sources {
		records, err := src.Collect(ctx)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		if err := s.store.UpsertStories(ctx, records); err != nil {
			errs = append(errs, fmt.Sprintf("%s store: %v", src.Name(), err))
			continue
		}
		results[src.Name()] = len(records)
	}

	resp := map[string]any{"collected": results}
	if len(errs) > 0 {
		resp["errors"] = errs
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
