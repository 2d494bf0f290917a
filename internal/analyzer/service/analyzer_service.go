package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/metrics"
	"golang-stock-sentiment/internal/analyzer/report"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/telegram"
	"golang-stock-sentiment/pkg/utils"
)

var (
	// ErrInvalidSymbol is returned before any source is contacted when the ticker is not [A-Z]+.
	ErrInvalidSymbol = errors.New("invalid symbol: use uppercase letters A-Z only")
	// ErrHistoryDisabled is returned by History when no database is configured.
	ErrHistoryDisabled = errors.New("signal history is disabled: no database configured")
)

// AnalyzeOptions tunes one analysis call. The zero value runs the pipeline and writes the report.
type AnalyzeOptions struct {
	Notify     bool
	SkipReport bool
	Progress   ProgressFunc
}

// AnalyzerService runs the full analysis for one ticker.
type AnalyzerService interface {
	Analyze(ctx context.Context, symbol string, opts AnalyzeOptions) (*dto.AnalysisResult, error)
	History(ctx context.Context, symbol string, limit int) ([]entity.SentimentSignal, error)
}

type analyzerService struct {
	cfg         *config.Config
	log         *logger.Logger
	fetcher     Fetcher
	reporter    report.Reporter
	signalRepo  repository.SentimentSignalRepository
	telegramBot telegram.Notifier
	now         func() time.Time
}

// NewAnalyzerService wires the pipeline. signalRepo and telegramBot may be nil
// when the database or Telegram is not configured.
func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	fetcher Fetcher,
	reporter report.Reporter,
	signalRepo repository.SentimentSignalRepository,
	telegramBot telegram.Notifier,
) AnalyzerService {
	return &analyzerService{
		cfg:         cfg,
		log:         log,
		fetcher:     fetcher,
		reporter:    reporter,
		signalRepo:  signalRepo,
		telegramBot: telegramBot,
		now:         time.Now,
	}
}

func (s *analyzerService) Analyze(ctx context.Context, symbol string, opts AnalyzeOptions) (*dto.AnalysisResult, error) {
	ticker, ok := utils.NormalizeSymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}

	ctx = logger.WithAnalysisID(ctx, uuid.NewString())
	s.log.InfoContext(ctx, "Starting analysis", logger.StringField("symbol", ticker))

	if err := s.fetcher.Prepare(ctx); err != nil {
		s.log.ErrorContext(ctx, "Analysis precondition failed", logger.StringField("symbol", ticker), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to prepare sources: %w", err)
	}

	collected := s.fetcher.Collect(ctx, ticker, opts.Progress)
	aggregate := Aggregate(collected.Posts)
	verdict, rationale := Decide(aggregate, aggregate.TotalPosts)
	metrics.Recommendations.WithLabelValues(string(verdict)).Inc()

	result := &dto.AnalysisResult{
		Symbol:         ticker,
		Posts:          collected.Posts,
		Metrics:        aggregate,
		Recommendation: verdict,
		Rationale:      rationale,
		FailedSources:  collected.FailedSources,
		AnalyzedAt:     s.now().UTC(),
	}

	s.log.InfoContext(ctx, "Analysis complete",
		logger.StringField("symbol", ticker),
		logger.StringField("recommendation", string(verdict)),
		logger.Float64Field("sentiment", aggregate.WeightedSentiment),
		logger.Float64Field("confidence", aggregate.Confidence),
		logger.IntField("posts", aggregate.TotalPosts),
	)

	// Everything below is output only; failures are logged and never change the verdict.
	if !opts.SkipReport && s.reporter != nil {
		path, err := s.reporter.Write(result)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to write report", logger.StringField("symbol", ticker), logger.ErrorField(err))
		} else {
			result.ReportPath = path
		}
	}

	s.storeSignal(ctx, result)

	if opts.Notify {
		s.notify(ctx, result)
	}

	return result, nil
}

func (s *analyzerService) storeSignal(ctx context.Context, result *dto.AnalysisResult) {
	if s.signalRepo == nil {
		return
	}

	sourceCounts, err := json.Marshal(result.Metrics.SourceCounts)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to marshal source counts", logger.ErrorField(err))
		return
	}

	signal := &entity.SentimentSignal{
		Symbol:            result.Symbol,
		Recommendation:    string(result.Recommendation),
		Rationale:         result.Rationale,
		WeightedSentiment: result.Metrics.WeightedSentiment,
		Confidence:        result.Metrics.Confidence,
		TotalPosts:        result.Metrics.TotalPosts,
		DeepAnalysisPosts: result.Metrics.DeepAnalysisPosts,
		SourceCounts:      sourceCounts,
		FailedSources:     result.FailedSources,
	}
	if err := s.signalRepo.Create(ctx, signal); err != nil {
		s.log.ErrorContext(ctx, "Failed to store sentiment signal", logger.StringField("symbol", result.Symbol), logger.ErrorField(err))
	}
}

func (s *analyzerService) notify(ctx context.Context, result *dto.AnalysisResult) {
	if s.telegramBot == nil {
		s.log.WarnContext(ctx, "Notification requested but telegram is not configured", logger.StringField("symbol", result.Symbol))
		return
	}
	msg := telegram.FormatAnalysisMessage(result, s.cfg.Report.TopPosts)
	if err := s.telegramBot.SendMessage(msg); err != nil {
		s.log.ErrorContext(ctx, "Failed to send telegram message", logger.StringField("symbol", result.Symbol), logger.ErrorField(err))
	}
}

// History returns stored signals for symbol, newest first.
func (s *analyzerService) History(ctx context.Context, symbol string, limit int) ([]entity.SentimentSignal, error) {
	ticker, ok := utils.NormalizeSymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	if s.signalRepo == nil {
		return nil, ErrHistoryDisabled
	}
	signals, err := s.signalRepo.FindBySymbol(ctx, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find signals: %w", err)
	}
	return signals, nil
}
