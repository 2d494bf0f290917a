package dto

import (
	"time"

	"golang-stock-sentiment/internal/entity"
)

// AnalysisResult is the full outcome of one analysis call.
type AnalysisResult struct {
	Symbol         string                  `json:"symbol"`
	Posts          []entity.Post           `json:"posts"`
	Metrics        entity.AggregateMetrics `json:"metrics"`
	Recommendation entity.Recommendation   `json:"recommendation"`
	Rationale      string                  `json:"rationale"`
	FailedSources  []string                `json:"failed_sources"`
	ReportPath     string                  `json:"report_path,omitempty"`
	AnalyzedAt     time.Time               `json:"analyzed_at"`
}

// AnalysisResponse is the API view of an AnalysisResult; it carries the top posts only.
type AnalysisResponse struct {
	Symbol            string         `json:"symbol"`
	Recommendation    string         `json:"recommendation"`
	Rationale         string         `json:"rationale"`
	TotalPosts        int            `json:"total_posts"`
	DeepAnalysisPosts int            `json:"deep_analysis_posts"`
	WeightedSentiment float64        `json:"weighted_sentiment"`
	Confidence        float64        `json:"confidence"`
	SourceCounts      map[string]int `json:"source_counts"`
	FailedSources     []string       `json:"failed_sources"`
	TopPosts          []entity.Post  `json:"top_posts"`
	AnalyzedAt        time.Time      `json:"analyzed_at"`
}

// StreamDataAnalyze is the payload of one analysis request on the Redis stream.
type StreamDataAnalyze struct {
	Symbol string `json:"symbol"`
	Notify bool   `json:"notify"`
}

// SourceProgress is emitted once per completed source.
type SourceProgress struct {
	Source    string `json:"source"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Posts     int    `json:"posts"`
	Err       error  `json:"-"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
