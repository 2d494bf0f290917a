package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/logger"
)

type recordingAnalyzer struct {
	err   error
	calls []string
	opts  []AnalyzeOptions
}

func (a *recordingAnalyzer) Analyze(ctx context.Context, symbol string, opts AnalyzeOptions) (*dto.AnalysisResult, error) {
	a.calls = append(a.calls, symbol)
	a.opts = append(a.opts, opts)
	if a.err != nil {
		return nil, a.err
	}
	return &dto.AnalysisResult{Symbol: symbol, Recommendation: entity.RecommendationHold}, nil
}

func (a *recordingAnalyzer) History(ctx context.Context, symbol string, limit int) ([]entity.SentimentSignal, error) {
	return nil, nil
}

var streamTestConfig = &config.Config{
	Stream: config.Stream{MaxIdleDuration: time.Minute, MaxRetry: 3},
}

func readGroupArgs() *redis.XReadGroupArgs {
	return &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamSentimentAnalyze, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}
}

func streamMessage(id, payload string) []redis.XStream {
	return []redis.XStream{{
		Stream:   common.RedisStreamSentimentAnalyze,
		Messages: []redis.XMessage{{ID: id, Values: map[string]interface{}{"payload": payload}}},
	}}
}

func TestStreamService_Publish(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, &recordingAnalyzer{}, nil)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: common.RedisStreamSentimentAnalyze,
		Values: map[string]interface{}{"payload": `{"symbol":"TSLA","notify":true}`},
		Approx: true,
	}).SetVal("1-0")

	id, err := svc.Publish(context.Background(), dto.StreamDataAnalyze{Symbol: "TSLA", Notify: true})
	require.NoError(t, err)
	assert.Equal(t, "1-0", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamService_EnsureGroup(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, &recordingAnalyzer{}, nil)

	mock.ExpectXGroupCreateMkStream(common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "0").
		SetErr(errors.New("BUSYGROUP Consumer Group name already exists"))
	assert.NoError(t, svc.EnsureGroup(context.Background()))

	mock.ExpectXGroupCreateMkStream(common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "0").
		SetErr(errors.New("connection refused"))
	assert.Error(t, svc.EnsureGroup(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamService_ProcessTask(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, nil)

	mock.ExpectXReadGroup(readGroupArgs()).SetVal(streamMessage("1-0", `{"symbol":"GME","notify":true}`))
	mock.ExpectXAck(common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "1-0").SetVal(1)
	mock.ExpectXDel(common.RedisStreamSentimentAnalyze, "1-0").SetVal(1)

	svc.ProcessTask(context.Background())

	assert.Equal(t, []string{"GME"}, analyzer.calls)
	assert.True(t, analyzer.opts[0].Notify)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamService_ProcessTask_FailureLeavesMessagePending(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{err: ErrNoUsableSource}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, nil)

	mock.ExpectXReadGroup(readGroupArgs()).SetVal(streamMessage("2-0", `{"symbol":"GME"}`))

	svc.ProcessTask(context.Background())

	assert.Equal(t, []string{"GME"}, analyzer.calls)
	assert.NoError(t, mock.ExpectationsWereMet(), "no ack expected")
}

func TestStreamService_ProcessTask_MalformedPayloadDropped(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, nil)

	mock.ExpectXReadGroup(readGroupArgs()).SetVal(streamMessage("3-0", `not json`))
	mock.ExpectXAck(common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "3-0").SetVal(1)
	mock.ExpectXDel(common.RedisStreamSentimentAnalyze, "3-0").SetVal(1)

	svc.ProcessTask(context.Background())

	assert.Empty(t, analyzer.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamService_ProcessTask_InvalidSymbolAcked(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{err: ErrInvalidSymbol}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, nil)

	mock.ExpectXReadGroup(readGroupArgs()).SetVal(streamMessage("4-0", `{"symbol":"123"}`))
	mock.ExpectXAck(common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "4-0").SetVal(1)
	mock.ExpectXDel(common.RedisStreamSentimentAnalyze, "4-0").SetVal(1)

	svc.ProcessTask(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamService_ProcessTask_Idle(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, nil)

	mock.ExpectXReadGroup(readGroupArgs()).RedisNil()

	svc.ProcessTask(context.Background())

	assert.Empty(t, analyzer.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func autoClaimArgs() *redis.XAutoClaimArgs {
	return &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamSentimentAnalyze,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  time.Minute,
		Start:    "0",
		Count:    1,
	}
}

func pendingArgs(id string) *redis.XPendingExtArgs {
	return &redis.XPendingExtArgs{
		Stream: common.RedisStreamSentimentAnalyze,
		Group:  common.RedisStreamGroup,
		Start:  id,
		End:    id,
		Count:  1,
	}
}

func TestStreamService_ProcessRetries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, nil)

	msg := redis.XMessage{ID: "5-0", Values: map[string]interface{}{"payload": `{"symbol":"AMC"}`}}
	mock.ExpectXAutoClaim(autoClaimArgs()).SetVal([]redis.XMessage{msg}, "0-0")
	mock.ExpectXPendingExt(pendingArgs("5-0")).SetVal([]redis.XPendingExt{{ID: "5-0", RetryCount: 1}})
	mock.ExpectXAck(common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "5-0").SetVal(1)
	mock.ExpectXDel(common.RedisStreamSentimentAnalyze, "5-0").SetVal(1)

	svc.ProcessRetries(context.Background())

	assert.Equal(t, []string{"AMC"}, analyzer.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamService_ProcessRetries_ExceededDropsAndAlerts(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{}
	notifier := &stubNotifier{}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, notifier)

	msg := redis.XMessage{ID: "6-0", Values: map[string]interface{}{"payload": `{"symbol":"AMC"}`}}
	mock.ExpectXAutoClaim(autoClaimArgs()).SetVal([]redis.XMessage{msg}, "0-0")
	mock.ExpectXPendingExt(pendingArgs("6-0")).SetVal([]redis.XPendingExt{{ID: "6-0", RetryCount: 3}})
	mock.ExpectXAck(common.RedisStreamSentimentAnalyze, common.RedisStreamGroup, "6-0").SetVal(1)
	mock.ExpectXDel(common.RedisStreamSentimentAnalyze, "6-0").SetVal(1)

	svc.ProcessRetries(context.Background())

	assert.Empty(t, analyzer.calls)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "AMC")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamService_ProcessRetries_NothingPending(t *testing.T) {
	db, mock := redismock.NewClientMock()
	analyzer := &recordingAnalyzer{}
	svc := NewStreamService(streamTestConfig, logger.NewNop(), db, analyzer, nil)

	mock.ExpectXAutoClaim(autoClaimArgs()).SetVal([]redis.XMessage{}, "0-0")

	svc.ProcessRetries(context.Background())

	assert.Empty(t, analyzer.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
