package store

const schema = `
CREATE TABLE IF NOT EXISTS stories (
    id                   TEXT PRIMARY KEY,
    title                TEXT NOT NULL,
    summary              TEXT NOT NULL DEFAULT '',
    summary_en           TEXT NOT NULL DEFAULT '',
    category             TEXT NOT NULL DEFAULT '',
    platform_name        TEXT NOT NULL DEFAULT '',
    channel_name         TEXT NOT NULL DEFAULT '',
    platform_video_id    TEXT NOT NULL DEFAULT '',
    platform_external_id TEXT NOT NULL DEFAULT '',
    published_at         DATETIME NOT NULL,
    popularity_score     REAL,
    view_count_raw       TEXT NOT NULL DEFAULT '',
    like_count_raw       TEXT NOT NULL DEFAULT '',
    comment_count_raw    TEXT NOT NULL DEFAULT '',
    growth_rate_raw      TEXT NOT NULL DEFAULT '',
    ai_image_url         TEXT NOT NULL DEFAULT '',
    ai_prompt            TEXT NOT NULL DEFAULT '',
    source_url           TEXT NOT NULL DEFAULT '',
    alerted              BOOLEAN NOT NULL DEFAULT 0,
    created_at           DATETIME NOT NULL,
    updated_at           DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stories_platform ON stories(platform_name);
CREATE INDEX IF NOT EXISTS idx_stories_published_at ON stories(published_at);
CREATE INDEX IF NOT EXISTS idx_stories_created_at ON stories(created_at);
CREATE INDEX IF NOT EXISTS idx_stories_popularity ON stories(popularity_score);

CREATE TABLE IF NOT EXISTS score_snapshots (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    story_id   TEXT NOT NULL REFERENCES stories(id),
    popularity REAL NOT NULL,
    checked_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_story ON score_snapshots(story_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_checked ON score_snapshots(checked_at);
`
