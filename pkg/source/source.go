package source

import (
	"context"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

// Source is the interface every story collector must implement.
type Source interface {
	Name() string
	Collect(ctx context.Context) ([]story.StoryRecord, error)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
