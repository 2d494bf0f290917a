package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/telegram"
	"golang-stock-sentiment/pkg/utils"
)

// Publisher enqueues analysis requests.
type Publisher interface {
	Publish(ctx context.Context, req dto.StreamDataAnalyze) (string, error)
}

// WatchlistScheduler analyzes the configured symbols on a cron schedule.
type WatchlistScheduler struct {
	cfg         *config.Config
	log         *logger.Logger
	cron        *cron.Cron
	publisher   Publisher
	analyzer    service.AnalyzerService
	telegramBot telegram.Notifier
}

// NewWatchlistScheduler creates a scheduler. When publisher is nil every tick runs the
// analyses in-process and sends one digest; otherwise each symbol is queued on the stream.
func NewWatchlistScheduler(cfg *config.Config, log *logger.Logger, publisher Publisher, analyzer service.AnalyzerService, telegramBot telegram.Notifier) *WatchlistScheduler {
	return &WatchlistScheduler{
		cfg:         cfg,
		log:         log,
		cron:        cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		publisher:   publisher,
		analyzer:    analyzer,
		telegramBot: telegramBot,
	}
}

// Start registers the watchlist job and starts the cron runner.
func (s *WatchlistScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Watchlist.Cron, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid watchlist cron %q: %w", s.cfg.Watchlist.Cron, err)
	}
	s.cron.Start()
	s.log.Info("Watchlist scheduler started",
		logger.StringField("cron", s.cfg.Watchlist.Cron),
		logger.IntField("symbols", len(s.cfg.Watchlist.Symbols)))
	return nil
}

// Stop halts the cron runner and waits for a running tick to finish.
func (s *WatchlistScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Watchlist scheduler stopped")
}

// RunOnce handles one tick.
func (s *WatchlistScheduler) RunOnce(ctx context.Context) {
	if s.publisher != nil {
		s.publishAll(ctx)
		return
	}
	s.analyzeAll(ctx)
}

func (s *WatchlistScheduler) publishAll(ctx context.Context) {
	for _, raw := range s.cfg.Watchlist.Symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			return
		}
		symbol, ok := utils.NormalizeSymbol(raw)
		if !ok {
			s.log.Warn("Skipping invalid watchlist symbol", logger.StringField("symbol", raw))
			continue
		}
		id, err := s.publisher.Publish(ctx, dto.StreamDataAnalyze{Symbol: symbol, Notify: s.cfg.Watchlist.Notify})
		if err != nil {
			s.log.Error("Failed to publish watchlist request", logger.StringField("symbol", symbol), logger.ErrorField(err))
			continue
		}
		s.log.Info("Watchlist request published", logger.StringField("symbol", symbol), logger.StringField("message_id", id))
	}
}

func (s *WatchlistScheduler) analyzeAll(ctx context.Context) {
	var results []*dto.AnalysisResult
	for _, symbol := range s.cfg.Watchlist.Symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		result, err := s.analyzer.Analyze(ctx, symbol, service.AnalyzeOptions{})
		if err != nil {
			s.log.Error("Watchlist analysis failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
			continue
		}
		results = append(results, result)
	}

	if !s.cfg.Watchlist.Notify || s.telegramBot == nil {
		return
	}
	for _, msg := range telegram.FormatWatchlistDigest(results) {
		if err := s.telegramBot.SendMessage(msg); err != nil {
			s.log.Error("Failed to send watchlist digest", logger.ErrorField(err))
		}
	}
}
