package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SentimentSignal is the stored outcome of one analysis: metrics and verdict, never the posts.
type SentimentSignal struct {
	ID                int64          `gorm:"primaryKey" json:"id"`
	Symbol            string         `gorm:"index;not null" json:"symbol"`
	Recommendation    string         `gorm:"not null" json:"recommendation"`
	Rationale         string         `json:"rationale"`
	WeightedSentiment float64        `json:"weighted_sentiment"`
	Confidence        float64        `json:"confidence"`
	TotalPosts        int            `json:"total_posts"`
	DeepAnalysisPosts int            `json:"deep_analysis_posts"`
	SourceCounts      datatypes.JSON `gorm:"type:jsonb" json:"source_counts"`
	FailedSources     pq.StringArray `gorm:"type:text[]" json:"failed_sources"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SentimentSignal) TableName() string {
	return "sentiment_signals"
}
