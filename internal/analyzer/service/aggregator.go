package service

import (
	"math"

	"golang-stock-sentiment/internal/entity"
)

const (
	// engagementFloor keeps log10 strictly positive for posts without score or comments.
	engagementFloor   = 10.0
	deepAnalysisBoost = 1.5
	maxConfidence     = 0.95
	confidenceDivisor = 2.0
)

// EngagementWeight is the aggregation weight of one post. Net-negative engagement
// counts as none, so the weight is always finite and at least 1.
func EngagementWeight(post entity.Post) float64 {
	engagement := math.Max(0, float64(post.Score)+float64(post.NumComments))
	weight := math.Log10(engagement + engagementFloor)
	if post.IsDeepAnalysis {
		weight *= deepAnalysisBoost
	}
	return weight
}

// Confidence saturates with sample size: 0 for no posts, never above 0.95.
func Confidence(postCount int) float64 {
	return math.Min(maxConfidence, math.Log10(float64(postCount)+1)/confidenceDivisor)
}

// Aggregate reduces posts to engagement-weighted sentiment, confidence and tallies.
func Aggregate(posts []entity.Post) entity.AggregateMetrics {
	m := entity.AggregateMetrics{
		TotalPosts:   len(posts),
		SourceCounts: make(map[string]int),
	}

	var weightedSum, totalWeight float64
	for _, post := range posts {
		weight := EngagementWeight(post)
		if post.IsDeepAnalysis {
			m.DeepAnalysisPosts++
		}
		weightedSum += post.Sentiment * weight
		totalWeight += weight
		m.SourceCounts[post.Source]++
	}

	if totalWeight > 0 {
		m.WeightedSentiment = weightedSum / totalWeight
	}
	m.Confidence = Confidence(len(posts))
	return m
}
