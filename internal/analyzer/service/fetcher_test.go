package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/parser"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/analyzer/sentiment"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
)

type sourceResponse struct {
	records []dto.RawRecord
	err     error
	delay   time.Duration
	// ignoreCtx simulates a client that never honors cancellation.
	ignoreCtx bool
}

type stubClient struct {
	mu        sync.Mutex
	responses map[string]sourceResponse
	authErr   error
	authCalls int
	fetched   []string
}

func (c *stubClient) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authCalls++
	return c.authErr
}

func (c *stubClient) Fetch(ctx context.Context, source entity.Source, ticker string) ([]dto.RawRecord, error) {
	c.mu.Lock()
	resp := c.responses[source.Name]
	c.fetched = append(c.fetched, source.Name)
	c.mu.Unlock()

	if resp.delay > 0 {
		if resp.ignoreCtx {
			time.Sleep(resp.delay)
		} else {
			select {
			case <-time.After(resp.delay):
			case <-ctx.Done():
				return nil, repository.NewFetchError(source.Name, repository.ErrTimeout, ctx.Err())
			}
		}
	}
	return resp.records, resp.err
}

// credentialFreeClient has no Authenticate method.
type credentialFreeClient struct {
	records []dto.RawRecord
}

func (c *credentialFreeClient) Fetch(ctx context.Context, source entity.Source, ticker string) ([]dto.RawRecord, error) {
	return c.records, nil
}

func record(title string, score int, subreddit string) dto.RawRecord {
	return dto.RawRecord{"title": title, "score": score, "subreddit": subreddit, "num_comments": 1}
}

func newTestFetcher(sources []entity.Source, clients map[entity.SourceKind]repository.SourceClient, timeout time.Duration) Fetcher {
	cfg := &config.Config{
		Sources:  sources,
		Analyzer: config.Analyzer{SourceTimeout: timeout, MaxConcurrentSources: 3},
	}
	p := parser.NewPostParser(sentiment.NewScorer(sentiment.NewLexicon(nil)))
	return NewFetcher(cfg, clients, p, logger.NewNop())
}

func redditSource(name string, weight float64, minScore int) entity.Source {
	return entity.Source{Name: name, Kind: entity.SourceKindReddit, Weight: weight, MinScore: minScore}
}

func TestFetcher_Collect_FailingSourceIsSkipped(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		"broken": {err: repository.NewFetchError("broken", repository.ErrStatus, errors.New("status 503"))},
		"stocks": {records: []dto.RawRecord{record("TSLA bullish", 100, "stocks")}},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("broken", 1, 0), redditSource("stocks", 1, 0)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		time.Second,
	)

	result := f.Collect(context.Background(), "TSLA", nil)

	require.Len(t, result.Posts, 1)
	assert.Equal(t, "TSLA bullish", result.Posts[0].Title)
	assert.Equal(t, []string{"broken"}, result.FailedSources)
}

func TestFetcher_Collect_AllSourcesFailYieldsEmpty(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		"a": {err: errors.New("boom")},
		"b": {err: errors.New("boom")},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("a", 1, 0), redditSource("b", 1, 0)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		time.Second,
	)

	result := f.Collect(context.Background(), "TSLA", nil)

	assert.NotNil(t, result.Posts)
	assert.Empty(t, result.Posts)
	assert.Equal(t, []string{"a", "b"}, result.FailedSources)
}

func TestFetcher_Collect_MinScoreFilterUsesRawScore(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		"wsb": {records: []dto.RawRecord{
			record("bullish kept", 50, "wsb"),
			record("bullish dropped", 49, "wsb"),
		}},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("wsb", 0.5, 50)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		time.Second,
	)

	result := f.Collect(context.Background(), "TSLA", nil)

	require.Len(t, result.Posts, 1)
	assert.Equal(t, "bullish kept", result.Posts[0].Title)
	assert.Equal(t, 50, result.Posts[0].Score, "score is not weighted")
}

func TestFetcher_Collect_WeightAppliedOnce(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		"heavy": {records: []dto.RawRecord{record("bullish", 10, "heavy")}},
		"light": {records: []dto.RawRecord{record("bearish", 5, "light")}},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("heavy", 2.0, 0), redditSource("light", 0.5, 0)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		time.Second,
	)

	result := f.Collect(context.Background(), "TSLA", nil)

	require.Len(t, result.Posts, 2)
	assert.InDelta(t, 2.0, result.Posts[0].Sentiment, 1e-9)
	assert.InDelta(t, -0.5, result.Posts[1].Sentiment, 1e-9)
}

func TestFetcher_Collect_MalformedRecordsSkipped(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		"stocks": {records: []dto.RawRecord{
			{"score": 10, "subreddit": "stocks"},
			{"title": "no score", "subreddit": "stocks"},
			{},
			record("good one", 10, "stocks"),
		}},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("stocks", 1, 0)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		time.Second,
	)

	result := f.Collect(context.Background(), "TSLA", nil)

	require.Len(t, result.Posts, 1)
	assert.Equal(t, "good one", result.Posts[0].Title)
	assert.Empty(t, result.FailedSources)
}

func TestFetcher_Collect_DeterministicMergeRegardlessOfCompletionOrder(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		// first configured source finishes last
		"first":  {records: []dto.RawRecord{record("first-a", 10, "first"), record("first-b", 30, "first")}, delay: 80 * time.Millisecond},
		"second": {records: []dto.RawRecord{record("second-a", 10, "second"), record("second-b", 30, "second")}},
		"third":  {records: []dto.RawRecord{record("third-a", 20, "third")}, delay: 20 * time.Millisecond},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("first", 1, 0), redditSource("second", 1, 0), redditSource("third", 1, 0)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		time.Second,
	)

	result := f.Collect(context.Background(), "TSLA", nil)

	var titles []string
	for _, p := range result.Posts {
		titles = append(titles, p.Title)
	}
	// descending score; ties keep configured source order
	assert.Equal(t, []string{"first-b", "second-b", "third-a", "first-a", "second-a"}, titles)
}

func TestFetcher_Collect_SlowSourceTimesOut(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		"slow": {records: []dto.RawRecord{record("late", 10, "slow")}, delay: 2 * time.Second, ignoreCtx: true},
		"fast": {records: []dto.RawRecord{record("on time", 10, "fast")}},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("slow", 1, 0), redditSource("fast", 1, 0)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		100*time.Millisecond,
	)

	start := time.Now()
	result := f.Collect(context.Background(), "TSLA", nil)

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "on time", result.Posts[0].Title)
	assert.Equal(t, []string{"slow"}, result.FailedSources)
}

func TestFetcher_Collect_ReportsProgress(t *testing.T) {
	client := &stubClient{responses: map[string]sourceResponse{
		"a": {records: []dto.RawRecord{record("x", 1, "a")}},
		"b": {err: errors.New("down")},
		"c": {records: []dto.RawRecord{record("y", 1, "c"), record("z", 1, "c")}},
	}}
	f := newTestFetcher(
		[]entity.Source{redditSource("a", 1, 0), redditSource("b", 1, 0), redditSource("c", 1, 0)},
		map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
		time.Second,
	)

	var events []dto.SourceProgress
	result := f.Collect(context.Background(), "TSLA", func(p dto.SourceProgress) {
		events = append(events, p)
	})

	require.Len(t, events, 3)
	completed := make(map[int]bool)
	posts := make(map[string]int)
	for _, e := range events {
		assert.Equal(t, 3, e.Total)
		completed[e.Completed] = true
		posts[e.Source] = e.Posts
		if e.Source == "b" {
			assert.Error(t, e.Err)
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, completed)
	assert.Equal(t, map[string]int{"a": 1, "b": 0, "c": 2}, posts)
	assert.Len(t, result.Posts, 3)
}

func TestFetcher_Collect_UnknownKindFails(t *testing.T) {
	f := newTestFetcher(
		[]entity.Source{{Name: "feed", Kind: entity.SourceKindRSS, Weight: 1}},
		map[entity.SourceKind]repository.SourceClient{},
		time.Second,
	)

	result := f.Collect(context.Background(), "TSLA", nil)

	assert.Empty(t, result.Posts)
	assert.Equal(t, []string{"feed"}, result.FailedSources)
}

func TestFetcher_Prepare(t *testing.T) {
	authErr := repository.NewFetchError("reddit", repository.ErrAuth, errors.New("401"))

	t.Run("authenticates each kind once", func(t *testing.T) {
		client := &stubClient{}
		f := newTestFetcher(
			[]entity.Source{redditSource("a", 1, 0), redditSource("b", 1, 0)},
			map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
			time.Second,
		)
		require.NoError(t, f.Prepare(context.Background()))
		assert.Equal(t, 1, client.authCalls)
	})

	t.Run("fails when no source is usable", func(t *testing.T) {
		client := &stubClient{authErr: authErr}
		f := newTestFetcher(
			[]entity.Source{redditSource("a", 1, 0)},
			map[entity.SourceKind]repository.SourceClient{entity.SourceKindReddit: client},
			time.Second,
		)
		err := f.Prepare(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoUsableSource)
		assert.ErrorIs(t, err, repository.ErrAuth)
	})

	t.Run("credential-free source keeps analysis alive", func(t *testing.T) {
		client := &stubClient{authErr: authErr}
		f := newTestFetcher(
			[]entity.Source{redditSource("a", 1, 0), {Name: "news", Kind: entity.SourceKindRSS, Weight: 1}},
			map[entity.SourceKind]repository.SourceClient{
				entity.SourceKindReddit: client,
				entity.SourceKindRSS:    &credentialFreeClient{},
			},
			time.Second,
		)
		assert.NoError(t, f.Prepare(context.Background()))
	})

	t.Run("no registered client for any source", func(t *testing.T) {
		f := newTestFetcher(
			[]entity.Source{redditSource("a", 1, 0)},
			map[entity.SourceKind]repository.SourceClient{},
			time.Second,
		)
		err := f.Prepare(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoUsableSource)
		assert.Equal(t, ErrNoUsableSource.Error(), err.Error())
		assert.NotContains(t, err.Error(), "%!")
	})
}
