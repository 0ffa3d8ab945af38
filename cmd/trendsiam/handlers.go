package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ArayainWood/trendsiam/internal/config"
	"github.com/ArayainWood/trendsiam/internal/scheduler"
	"github.com/ArayainWood/trendsiam/internal/store"
	"github.com/ArayainWood/trendsiam/pkg/alert"
	"github.com/ArayainWood/trendsiam/pkg/enrich"
	"github.com/ArayainWood/trendsiam/pkg/feed"
	"github.com/ArayainWood/trendsiam/pkg/server"
	"github.com/ArayainWood/trendsiam/pkg/source"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildEngine(cfg *config.Config) *feed.Engine {
	var thresholds []feed.GrowthThreshold
	for _, t := range cfg.Feed.GrowthThresholds {
		thresholds = append(thresholds, feed.GrowthThreshold{
			Floor: t.Floor,
			Label: feed.GrowthLabel(t.Label),
		})
	}

	return feed.New(feed.Config{
		TopN:                 cfg.Feed.TopN,
		MinPrimaryWindowSize: cfg.Feed.MinPrimaryWindowSize,
		FallbackWindowDays:   cfg.Feed.FallbackWindowDays,
		Timezone:             cfg.Feed.ParseTimezone(),
		GrowthThresholds:     thresholds,
		SiteBaseURL:          cfg.Feed.SiteBaseURL,
	})
}

func buildSources(cfg *config.Config, filter *source.Filter) []source.Source {
	var sources []source.Source

	if cfg.Sources.YouTube.Enabled {
		sources = append(sources, source.NewYouTube(
			cfg.Sources.YouTube.APIKey,
			cfg.Sources.YouTube.RegionCode,
			cfg.Sources.YouTube.MaxResults,
			filter,
		))
	}
	if cfg.Sources.RSS.Enabled {
		feeds := make([]source.RSSFeed, len(cfg.Sources.RSS.Feeds))
		for i, f := range cfg.Sources.RSS.Feeds {
			feeds[i] = source.RSSFeed{Name: f.Name, URL: f.URL}
		}
		sources = append(sources, source.NewRSS(feeds, filter))
	}

	return sources
}

func buildTranslator(cfg *config.Config) *enrich.Translator {
	if !cfg.Enrich.Enabled || cfg.Enrich.APIKey == "" {
		return nil
	}
	fmt.Fprintf(os.Stderr, "translator: %s/%s\n", cfg.Enrich.Provider, cfg.Enrich.Model)
	return enrich.NewTranslator(
		cfg.Enrich.Provider,
		cfg.Enrich.Model,
		cfg.Enrich.APIKey,
		cfg.Enrich.BaseURL,
	)
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runCollect(filterSources []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	filter := source.NewFilter(cfg.Filter.IncludeKeywords, cfg.Filter.ExcludeKeywords)
	allSources := buildSources(cfg, filter)

	// Filter to requested sources only.
	var sources []source.Source
	if len(filterSources) > 0 {
		wanted := make(map[string]bool)
		for _, s := range filterSources {
			wanted[strings.ToLower(strings.TrimSpace(s))] = true
		}
		for _, s := range allSources {
			if wanted[strings.ToLower(s.Name())] {
				sources = append(sources, s)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no matching sources for: %s", strings.Join(filterSources, ", "))
		}
	} else {
		sources = allSources
	}

	ctx := context.Background()
	total := 0

	for _, src := range sources {
		fmt.Fprintf(os.Stderr, "collecting from %s...\n", src.Name())
		records, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
			continue
		}

		if err := db.UpsertStories(ctx, records); err != nil {
			fmt.Fprintf(os.Stderr, "  store error: %v\n", err)
			continue
		}

		fmt.Fprintf(os.Stderr, "  collected %d stories\n", len(records))
		total += len(records)
	}

	fmt.Fprintf(os.Stderr, "\ntotal: %d stories from %d sources\n", total, len(sources))
	return nil
}

func runFeed(jsonOutput bool, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	engine := buildEngine(cfg)
	now := time.Now()
	records, err := db.ListStories(context.Background(), store.ListOpts{
		Since: now.AddDate(0, 0, -(engine.Config().FallbackWindowDays + 1)),
		Limit: 2000,
	})
	if err != nil {
		return fmt.Errorf("list stories: %w", err)
	}

	items := engine.Build(records, now)
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Println("no stories today (try collecting data first: trendsiam collect)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tGROWTH\tPLATFORM\tTITLE")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\t%s\n",
			item.Rank, item.PopularityScore, item.GrowthRateLabel,
			item.PlatformName, item.Title)
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	engine := buildEngine(cfg)
	filter := source.NewFilter(cfg.Filter.IncludeKeywords, cfg.Filter.ExcludeKeywords)
	sources := buildSources(cfg, filter)

	srv := server.New(db, engine, sources, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	engine := buildEngine(cfg)
	filter := source.NewFilter(cfg.Filter.IncludeKeywords, cfg.Filter.ExcludeKeywords)
	sources := buildSources(cfg, filter)
	translator := buildTranslator(cfg)
	alertMgr := buildAlertManager(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(db, sources, engine, translator, alertMgr,
		cfg.Schedule.ParseCollectInterval(),
		cfg.Schedule.ParseEnrichInterval(),
		cfg.Database.RetentionDays,
	)

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	// Start HTTP server.
	srv := server.New(db, engine, sources, port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}
