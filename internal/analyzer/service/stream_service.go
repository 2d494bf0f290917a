package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/telegram"
)

// StreamService consumes analysis requests from the Redis stream.
type StreamService interface {
	EnsureGroup(ctx context.Context) error
	Publish(ctx context.Context, req dto.StreamDataAnalyze) (string, error)
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
}

type streamService struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	analyzer    AnalyzerService
	telegramBot telegram.Notifier
}

// NewStreamService creates a StreamService. telegramBot may be nil.
func NewStreamService(cfg *config.Config, log *logger.Logger, redisClient *redis.Client, analyzer AnalyzerService, telegramBot telegram.Notifier) StreamService {
	return &streamService{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		analyzer:    analyzer,
		telegramBot: telegramBot,
	}
}

// EnsureGroup creates the consumer group and stream when missing.
func (s *streamService) EnsureGroup(ctx context.Context) error {
	err := s.redisClient.XGroupCreateMkStream(ctx, common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// Publish enqueues one analysis request and returns the message id.
func (s *streamService) Publish(ctx context.Context, req dto.StreamDataAnalyze) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis request: %w", err)
	}
	id, err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamSentimentAnalyze,
		Values: map[string]interface{}{common.RedisStreamPayloadField: string(payload)},
		MaxLen: s.cfg.Redis.StreamMaxLen,
		Approx: true,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish analysis request: %w", err)
	}
	return id, nil
}

func (s *streamService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamSentimentAnalyze, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		// Idle periods and shutdown are expected here.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}
	message := streams[0].Messages[0]

	req, err := decodeRequest(message)
	if err != nil {
		// a malformed request never succeeds, so drop it
		s.log.Error("Dropping malformed analysis request", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		if err := s.ackNDel(ctx, message.ID); err != nil {
			s.log.Error("Failed to drop malformed request", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		}
		return
	}

	s.log.Debug("Processing analysis request", logger.StringField("symbol", req.Symbol), logger.Field("notify", req.Notify))

	if err := s.analyze(ctx, req); err != nil {
		// left pending; ProcessRetries claims it after max idle
		s.log.Error("Failed to analyze symbol", logger.ErrorField(err), logger.StringField("message_id", message.ID), logger.StringField("symbol", req.Symbol))
		return
	}
	if err := s.ackNDel(ctx, message.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete analysis request", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		return
	}

	s.log.Debug("Analysis request processed successfully", logger.StringField("symbol", req.Symbol))
}

func (s *streamService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamSentimentAnalyze,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.Stream.MaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to claim analysis request on retry", logger.ErrorField(err))
		return
	}
	if len(msgs) == 0 {
		s.log.Debug("Retry no pending messages found", logger.StringField("stream", common.RedisStreamSentimentAnalyze))
		return
	}
	msg := msgs[0]

	pendingInfo, err := s.redisClient.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: common.RedisStreamSentimentAnalyze,
		Group:  common.RedisStreamGroup,
		Start:  msg.ID,
		End:    msg.ID,
		Count:  1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to get pending info", logger.ErrorField(err))
		return
	}
	if len(pendingInfo) == 0 {
		s.log.Warn("Pending message not found but claimed",
			logger.StringField("stream", common.RedisStreamSentimentAnalyze),
			logger.StringField("message_id", msg.ID))
		return
	}

	req, err := decodeRequest(msg)
	if err != nil {
		s.log.Error("Dropping malformed analysis request", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		if err := s.ackNDel(ctx, msg.ID); err != nil {
			s.log.Error("Failed to drop malformed request", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		}
		return
	}

	if pendingInfo[0].RetryCount >= int64(s.cfg.Stream.MaxRetry) {
		s.log.Error("Analysis request retry count exceeded",
			logger.StringField("message_id", msg.ID),
			logger.StringField("symbol", req.Symbol),
			logger.IntField("retry_count", int(pendingInfo[0].RetryCount)),
			logger.IntField("max_retry", s.cfg.Stream.MaxRetry),
		)
		s.alert(req, fmt.Sprintf("retry count %d exceeded", pendingInfo[0].RetryCount))
		if err := s.ackNDel(ctx, msg.ID); err != nil {
			s.log.Error("Failed to acknowledge and delete analysis request", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		}
		return
	}

	if err := s.analyze(ctx, req); err != nil {
		s.log.Error("Retry failed to analyze symbol", logger.ErrorField(err), logger.StringField("message_id", msg.ID), logger.StringField("symbol", req.Symbol))
		return
	}
	if err := s.ackNDel(ctx, msg.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete analysis request", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		return
	}
	s.log.Info("Retry analysis request processed successfully", logger.StringField("symbol", req.Symbol))
}

func (s *streamService) analyze(ctx context.Context, req dto.StreamDataAnalyze) error {
	_, err := s.analyzer.Analyze(ctx, req.Symbol, AnalyzeOptions{Notify: req.Notify})
	if errors.Is(err, ErrInvalidSymbol) {
		// retrying cannot fix the symbol
		s.log.Warn("Skipping request with invalid symbol", logger.StringField("symbol", req.Symbol))
		return nil
	}
	return err
}

func (s *streamService) alert(req dto.StreamDataAnalyze, reason string) {
	if s.telegramBot == nil {
		return
	}
	msg := telegram.FormatErrorAlertMessage(time.Now(), "Sentiment analysis failed", reason, req.Symbol)
	if err := s.telegramBot.SendMessage(msg); err != nil {
		s.log.Error("Failed to send telegram alert", logger.ErrorField(err), logger.StringField("symbol", req.Symbol))
	}
}

func (s *streamService) ackNDel(ctx context.Context, messageID string) error {
	if err := s.redisClient.XAck(ctx, common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, messageID).Err(); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	if err := s.redisClient.XDel(ctx, common.RedisStreamSentimentAnalyze, messageID).Err(); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func decodeRequest(msg redis.XMessage) (dto.StreamDataAnalyze, error) {
	var req dto.StreamDataAnalyze
	payload, ok := msg.Values[common.RedisStreamPayloadField].(string)
	if !ok {
		return req, fmt.Errorf("field %q not found or not a string", common.RedisStreamPayloadField)
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return req, fmt.Errorf("failed to unmarshal analysis request: %w", err)
	}
	return req, nil
}
