package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"golang-stock-sentiment/internal/entity"
)

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)

	assert.Equal(t, 0, m.TotalPosts)
	assert.Equal(t, 0, m.DeepAnalysisPosts)
	assert.Equal(t, 0.0, m.WeightedSentiment)
	assert.Equal(t, 0.0, m.Confidence)
	assert.NotNil(t, m.SourceCounts)
	assert.Empty(t, m.SourceCounts)
}

func TestAggregate_WeightedMean(t *testing.T) {
	posts := []entity.Post{
		{Score: 990, NumComments: 0, Sentiment: 1.0, Source: "stocks"},
		{Score: 0, NumComments: 0, Sentiment: -1.0, Source: "wsb"},
		{Score: 80, NumComments: 10, Sentiment: 0.5, Source: "stocks", IsDeepAnalysis: true},
	}

	m := Aggregate(posts)

	// weights: log10(1000)=3, log10(10)=1, log10(100)*1.5=3
	expected := (1.0*3 + -1.0*1 + 0.5*3) / 7
	assert.InDelta(t, expected, m.WeightedSentiment, 1e-9)
	assert.Equal(t, 3, m.TotalPosts)
	assert.Equal(t, 1, m.DeepAnalysisPosts)
	assert.Equal(t, map[string]int{"stocks": 2, "wsb": 1}, m.SourceCounts)
	assert.InDelta(t, math.Log10(4)/2, m.Confidence, 1e-9)
}

func TestAggregate_WithinSentimentRange(t *testing.T) {
	posts := []entity.Post{
		{Score: 5, Sentiment: -0.7},
		{Score: 5000, NumComments: 300, Sentiment: 0.9},
		{Score: 1, Sentiment: 0.2, IsDeepAnalysis: true},
	}

	m := Aggregate(posts)

	assert.GreaterOrEqual(t, m.WeightedSentiment, -0.7)
	assert.LessOrEqual(t, m.WeightedSentiment, 0.9)
}

func TestEngagementWeight(t *testing.T) {
	assert.InDelta(t, 1.0, EngagementWeight(entity.Post{}), 1e-9)
	assert.InDelta(t, 2.0, EngagementWeight(entity.Post{Score: 60, NumComments: 30}), 1e-9)
	assert.InDelta(t, 3.0, EngagementWeight(entity.Post{Score: 60, NumComments: 30, IsDeepAnalysis: true}), 1e-9)
}

func TestEngagementWeight_NegativeEngagement(t *testing.T) {
	for _, post := range []entity.Post{
		{Score: -10},
		{Score: -25, NumComments: 3},
		{Score: -899, IsDeepAnalysis: true},
	} {
		weight := EngagementWeight(post)
		assert.False(t, math.IsNaN(weight) || math.IsInf(weight, 0), "score %d", post.Score)
		assert.GreaterOrEqual(t, weight, 1.0, "score %d", post.Score)
	}
	assert.InDelta(t, 1.0, EngagementWeight(entity.Post{Score: -25}), 1e-9)
}

func TestAggregate_DownvotedPostKeepsMeanFinite(t *testing.T) {
	posts := []entity.Post{
		{Score: 50, Sentiment: 0.8, Source: "stocks"},
		{Score: 40, Sentiment: 0.8, Source: "stocks"},
		{Score: -25, Sentiment: 0.8, Source: "wallstreetbets"},
	}

	m := Aggregate(posts)

	assert.InDelta(t, 0.8, m.WeightedSentiment, 1e-9)
	assert.Equal(t, 3, m.TotalPosts)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.0, Confidence(0))
	assert.InDelta(t, math.Log10(11)/2, Confidence(10), 1e-9)

	prev := Confidence(0)
	for n := 1; n <= 10000; n *= 3 {
		c := Confidence(n)
		assert.GreaterOrEqual(t, c, prev)
		assert.LessOrEqual(t, c, 0.95)
		prev = c
	}
	assert.Equal(t, 0.95, Confidence(1_000_000))
}
