package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Snapshot records a point-in-time popularity score for a story. Snapshots
// feed the growth-rate refresh in the scheduler.
type Snapshot struct {
	ID         int64     `db:"id"`
	StoryID    string    `db:"story_id"`
	Popularity float64   `db:"popularity"`
	CheckedAt  time.Time `db:"checked_at"`
}

// ListOpts controls story listing.
type ListOpts struct {
	Platform string
	Since    time.Time
	Limit    int
}

// Store is the persistence interface.
type Store interface {
	UpsertStory(ctx context.Context, s *story.StoryRecord) error
	UpsertStories(ctx context.Context, stories []story.StoryRecord) error
	GetStory(ctx context.Context, id string) (*story.StoryRecord, error)
	ListStories(ctx context.Context, opts ListOpts) ([]story.StoryRecord, error)
	CountStoriesByPlatform(ctx context.Context) (map[string]int, error)
	SetSummaryEN(ctx context.Context, id, summaryEN string) error
	SetGrowthRate(ctx context.Context, id, growthRateRaw string) error
	MarkAlerted(ctx context.Context, id string) error
	PruneStories(ctx context.Context, before time.Time) (int64, error)

	AddSnapshot(ctx context.Context, storyID string, popularity float64) error
	GetSnapshots(ctx context.Context, storyID string, since time.Time) ([]Snapshot, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertStory(ctx context.Context, rec *story.StoryRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stories (
			id, title, summary, summary_en, category, platform_name, channel_name,
			platform_video_id, platform_external_id, published_at, popularity_score,
			view_count_raw, like_count_raw, comment_count_raw, growth_rate_raw,
			ai_image_url, ai_prompt, source_url, alerted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			category = excluded.category,
			platform_name = excluded.platform_name,
			channel_name = excluded.channel_name,
			popularity_score = excluded.popularity_score,
			view_count_raw = excluded.view_count_raw,
			like_count_raw = excluded.like_count_raw,
			comment_count_raw = excluded.comment_count_raw,
			source_url = excluded.source_url,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Title, rec.Summary, rec.SummaryEN, rec.Category, rec.PlatformName,
		rec.ChannelName, rec.PlatformVideoID, rec.PlatformExternalID, rec.PublishedAt,
		rec.PopularityScore, rec.ViewCountRaw, rec.LikeCountRaw, rec.CommentCountRaw,
		rec.GrowthRateRaw, rec.AIImageURL, rec.AIPrompt, rec.SourceURL, rec.Alerted,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert story %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertStories(ctx context.Context, stories []story.StoryRecord) error {
	for i := range stories {
		if err := s.UpsertStory(ctx, &stories[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetStory(ctx context.Context, id string) (*story.StoryRecord, error) {
	var rec story.StoryRecord
	err := s.db.GetContext(ctx, &rec, "SELECT * FROM stories WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get story %s: %w", id, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) ListStories(ctx context.Context, opts ListOpts) ([]story.StoryRecord, error) {
	query := "SELECT * FROM stories WHERE title != ''"
	var args []any

	if opts.Platform != "" {
		query += " AND platform_name = ?"
		args = append(args, opts.Platform)
	}
	if !opts.Since.IsZero() {
		// A story qualifies on either timestamp so the feed's publish-time
		// fallback to ingestion time keeps working.
		query += " AND (published_at >= ? OR created_at >= ?)"
		args = append(args, opts.Since, opts.Since)
	}

	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var stories []story.StoryRecord
	if err := s.db.SelectContext(ctx, &stories, query, args...); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

func (s *SQLiteStore) CountStoriesByPlatform(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT platform_name, COUNT(*) as cnt FROM stories GROUP BY platform_name")
	if err != nil {
		return nil, fmt.Errorf("count stories by platform: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var platform string
		var cnt int
		if err := rows.Scan(&platform, &cnt); err != nil {
			return nil, err
		}
		counts[platform] = cnt
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) SetSummaryEN(ctx context.Context, id, summaryEN string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE stories SET summary_en = ?, updated_at = ? WHERE id = ?",
		summaryEN, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set summary_en %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) SetGrowthRate(ctx context.Context, id, growthRateRaw string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE stories SET growth_rate_raw = ?, updated_at = ? WHERE id = ?",
		growthRateRaw, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set growth rate %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) MarkAlerted(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE stories SET alerted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark alerted %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) PruneStories(ctx context.Context, before time.Time) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM score_snapshots WHERE story_id IN (SELECT id FROM stories WHERE created_at < ? AND published_at < ?)",
		before, before); err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM stories WHERE created_at < ? AND published_at < ?", before, before)
	if err != nil {
		return 0, fmt.Errorf("prune stories: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *SQLiteStore) AddSnapshot(ctx context.Context, storyID string, popularity float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO score_snapshots (story_id, popularity, checked_at)
		VALUES (?, ?, ?)
	`, storyID, popularity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("add snapshot %s: %w", storyID, err)
	}
	return nil
}

func (s *SQLiteStore) GetSnapshots(ctx context.Context, storyID string, since time.Time) ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.SelectContext(ctx, &snaps,
		"SELECT * FROM score_snapshots WHERE story_id = ? AND checked_at >= ? ORDER BY checked_at",
		storyID, since)
	if err != nil {
		return nil, fmt.Errorf("get snapshots %s: %w", storyID, err)
	}
	return snaps, nil
}
