package service

import "golang-stock-sentiment/internal/entity"

const (
	minPostsForVerdict  = 5
	strongSentiment     = 0.5
	moderateSentiment   = 0.3
	strongConfidence    = 0.7
	deepAnalysisNoteMin = 5

	deepAnalysisNote = " Multiple due diligence posts found."
)

// Decide maps metrics to a verdict. Rules are evaluated in order; the first match wins.
func Decide(m entity.AggregateMetrics, totalPosts int) (entity.Recommendation, string) {
	var (
		verdict   entity.Recommendation
		rationale string
	)

	s, c := m.WeightedSentiment, m.Confidence
	switch {
	case totalPosts < minPostsForVerdict:
		verdict = entity.RecommendationInsufficientData
		rationale = "Insufficient discussion volume to make a confident recommendation."
	case s > strongSentiment && c > strongConfidence:
		verdict = entity.RecommendationStrongBuy
		rationale = "High positive sentiment with strong confidence level."
	case s > moderateSentiment:
		verdict = entity.RecommendationBuy
		rationale = "Moderate positive sentiment detected."
	case s < -strongSentiment && c > strongConfidence:
		verdict = entity.RecommendationStrongSell
		rationale = "High negative sentiment with strong confidence level."
	case s < -moderateSentiment:
		verdict = entity.RecommendationSell
		rationale = "Moderate negative sentiment detected."
	default:
		verdict = entity.RecommendationHold
		rationale = "Neutral or mixed sentiment detected."
	}

	if m.DeepAnalysisPosts > deepAnalysisNoteMin {
		rationale += deepAnalysisNote
	}
	return verdict, rationale
}
