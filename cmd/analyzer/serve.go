package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"golang-stock-sentiment/internal/analyzer/delivery/consumer"
	delivery "golang-stock-sentiment/internal/analyzer/delivery/http"
	"golang-stock-sentiment/internal/analyzer/scheduler"
	"golang-stock-sentiment/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the stream worker and the watchlist scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Info("Starting analyzer service", logger.StringField("name", a.cfg.App.Name), logger.StringField("version", a.cfg.App.Version))

	var publisher delivery.Publisher
	var watchPublisher scheduler.Publisher
	if a.stream != nil {
		redisConsumer := consumer.NewRedisConsumer(a.cfg, a.stream, a.log)
		redisConsumer.Start(ctx)
		defer redisConsumer.Stop()
		publisher = a.stream
		watchPublisher = a.stream
	} else {
		a.log.Info("Redis not configured, stream worker disabled")
	}

	if a.cfg.Watchlist.Enabled {
		watchlist := scheduler.NewWatchlistScheduler(a.cfg, a.log, watchPublisher, a.analyzer, a.notifier)
		if err := watchlist.Start(ctx); err != nil {
			return err
		}
		defer watchlist.Stop()
	}

	e := delivery.NewRouter(
		delivery.NewAnalysisHandler(a.analyzer, publisher, a.cfg.Report.TopPosts, a.log),
		delivery.NewSignalHandler(a.analyzer, a.log),
		delivery.NewHealthHandler(a.cfg.App.Version),
	)

	go func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.log.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info("Server exiting")
	return nil
}
