package entity

// AggregateMetrics is the reduction of one analysis' posts. Recomputed per analysis.
type AggregateMetrics struct {
	TotalPosts        int            `json:"total_posts"`
	DeepAnalysisPosts int            `json:"deep_analysis_posts"`
	SourceCounts      map[string]int `json:"source_counts"`
	WeightedSentiment float64        `json:"weighted_sentiment"`
	Confidence        float64        `json:"confidence"`
}
