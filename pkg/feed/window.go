package feed

import (
	"time"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

// selectWindow picks ranking candidates, preferring stories from "today"
// in the reference timezone and widening to the historical fallback window
// when today is too thin. Candidates carry their window tag so ranking can
// keep primary items ahead of fallback items regardless of score.
func selectWindow(records []story.StoryRecord, now time.Time, cfg Config) []candidate {
	today := dateIn(now, cfg.Timezone)
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, cfg.Timezone).
		AddDate(0, 0, -cfg.FallbackWindowDays)

	var primary, fallback []candidate
	for _, r := range records {
		// Title-less records violate the storage contract; they are
		// dropped rather than guessed at.
		if r.Title == "" {
			continue
		}

		ts := r.BestTimestamp()
		day := dateIn(ts, cfg.Timezone)
		switch {
		case day.Equal(today):
			primary = append(primary, candidate{StoryRecord: r, priority: 1})
		case day.Before(today) && !ts.Before(cutoff):
			fallback = append(fallback, candidate{StoryRecord: r, priority: 2})
		}
		// Future-dated or expired records fall in neither window.
	}

	if len(primary) >= cfg.MinPrimaryWindowSize {
		return primary
	}
	return append(primary, fallback...)
}

// dateIn truncates t to its calendar date in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
