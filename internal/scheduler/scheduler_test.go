package scheduler

import (
	"testing"

	"github.com/ArayainWood/trendsiam/pkg/story"
)

func TestPopularityOfScalesWithEngagement(t *testing.T) {
	small := story.StoryRecord{ViewCountRaw: "100"}
	big := story.StoryRecord{ViewCountRaw: "5,000,000", LikeCountRaw: "120,000"}

	smallScore := popularityOf(&small)
	bigScore := popularityOf(&big)

	if smallScore <= 0 {
		t.Error("any positive engagement should yield a positive score")
	}
	if bigScore <= smallScore {
		t.Errorf("bigger engagement should score higher: %v vs %v", bigScore, smallScore)
	}
	if bigScore > 100 {
		t.Errorf("score must be capped at 100, got %v", bigScore)
	}
}

func TestPopularityOfNoEngagement(t *testing.T) {
	r := story.StoryRecord{ViewCountRaw: "N/A", LikeCountRaw: ""}
	if got := popularityOf(&r); got != 0 {
		t.Errorf("no engagement should score 0, got %v", got)
	}
}
