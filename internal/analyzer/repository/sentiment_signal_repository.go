package repository

import (
	"context"

	"golang-stock-sentiment/internal/entity"

	"gorm.io/gorm"
)

// SentimentSignalRepository stores the outcome of completed analyses.
type SentimentSignalRepository interface {
	Create(ctx context.Context, signal *entity.SentimentSignal) error
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.SentimentSignal, error)
	FindLatest(ctx context.Context, symbol string) (*entity.SentimentSignal, error)
}

type sentimentSignalRepository struct {
	db *gorm.DB
}

// NewSentimentSignalRepository creates a new GORM-based signal repository.
func NewSentimentSignalRepository(db *gorm.DB) SentimentSignalRepository {
	return &sentimentSignalRepository{db: db}
}

func (r *sentimentSignalRepository) Create(ctx context.Context, signal *entity.SentimentSignal) error {
	return r.db.WithContext(ctx).Create(signal).Error
}

// FindBySymbol returns the newest signals for symbol first.
func (r *sentimentSignalRepository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.SentimentSignal, error) {
	var signals []entity.SentimentSignal
	q := r.db.WithContext(ctx).Where("symbol = ?", symbol).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}

// FindLatest returns nil without error when symbol has never been analyzed.
func (r *sentimentSignalRepository) FindLatest(ctx context.Context, symbol string) (*entity.SentimentSignal, error) {
	signals, err := r.FindBySymbol(ctx, symbol, 1)
	if err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return nil, nil
	}
	return &signals[0], nil
}
