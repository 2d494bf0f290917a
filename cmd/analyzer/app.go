package main

import (
	"context"
	"fmt"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/metrics"
	"golang-stock-sentiment/internal/analyzer/parser"
	"golang-stock-sentiment/internal/analyzer/report"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/analyzer/sentiment"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/httpclient"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/postgres"
	"golang-stock-sentiment/pkg/redis"
	"golang-stock-sentiment/pkg/telegram"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	analyzer service.AnalyzerService
	stream   service.StreamService
	notifier telegram.Notifier
	closers  []func()
}

// newApp wires the pipeline. Database, Redis and Telegram are optional: each is
// enabled only when configured, and withStream additionally requires Redis.
func newApp(withStream bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a := &app{cfg: cfg, log: appLogger}
	a.closers = append(a.closers, func() { _ = appLogger.Sync() })

	metrics.Register()

	httpClient := httpclient.New(cfg.Analyzer.SourceTimeout)
	clients := map[entity.SourceKind]repository.SourceClient{
		entity.SourceKindReddit: repository.NewRedditRepository(cfg, appLogger, httpClient),
		entity.SourceKindRSS:    repository.NewRSSRepository(cfg, appLogger, httpClient),
	}
	scorer := sentiment.NewScorer(sentiment.NewLexicon(cfg.Lexicon))
	fetcher := service.NewFetcher(cfg, clients, parser.NewPostParser(scorer), appLogger)
	reporter := report.NewHTMLReporter(cfg.Report.Dir, cfg.Report.TopPosts)

	var signalRepo repository.SentimentSignalRepository
	if cfg.Database.Enabled() {
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		signalRepo = repository.NewSentimentSignalRepository(db.DB)
	} else {
		appLogger.Info("Database not configured, signal history disabled")
	}

	if cfg.Telegram.BotToken != "" {
		notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
		a.notifier = notifier
	}

	a.analyzer = service.NewAnalyzerService(cfg, appLogger, fetcher, reporter, signalRepo, a.notifier)

	if withStream && cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = redisClient.Close() })

		a.stream = service.NewStreamService(cfg, appLogger, redisClient.Client, a.analyzer, a.notifier)
		if err := a.stream.EnsureGroup(context.Background()); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
