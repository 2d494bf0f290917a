package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/metrics"
	"golang-stock-sentiment/internal/analyzer/parser"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

// ErrNoUsableSource is returned by Prepare when no configured source can be queried.
var ErrNoUsableSource = errors.New("no source can be queried")

// ProgressFunc observes source completion. It never affects the collected result.
type ProgressFunc func(dto.SourceProgress)

// CollectResult is the merged, ranked output of one collection.
type CollectResult struct {
	Posts         []entity.Post
	FailedSources []string
}

// Fetcher retrieves, parses and ranks posts across all configured sources.
type Fetcher interface {
	Prepare(ctx context.Context) error
	Collect(ctx context.Context, ticker string, progress ProgressFunc) CollectResult
}

type fetcher struct {
	sources       []entity.Source
	clients       map[entity.SourceKind]repository.SourceClient
	parser        parser.PostParser
	log           *logger.Logger
	sourceTimeout time.Duration
	maxConcurrent int
}

// NewFetcher creates a Fetcher over cfg.Sources using the client registered for each source kind.
func NewFetcher(cfg *config.Config, clients map[entity.SourceKind]repository.SourceClient, postParser parser.PostParser, log *logger.Logger) Fetcher {
	maxConcurrent := cfg.Analyzer.MaxConcurrentSources
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &fetcher{
		sources:       cfg.Sources,
		clients:       clients,
		parser:        postParser,
		log:           log,
		sourceTimeout: cfg.Analyzer.SourceTimeout,
		maxConcurrent: maxConcurrent,
	}
}

// Prepare authenticates every client that needs a credential. It fails only when
// not a single source is left that could be queried.
func (f *fetcher) Prepare(ctx context.Context) error {
	authErrs := make(map[entity.SourceKind]error)
	checked := make(map[entity.SourceKind]bool)
	usable := 0

	for _, src := range f.sources {
		client, ok := f.clients[src.Kind]
		if !ok {
			continue
		}
		if !checked[src.Kind] {
			checked[src.Kind] = true
			if auth, ok := client.(repository.Authenticator); ok {
				if err := auth.Authenticate(ctx); err != nil {
					f.log.ErrorContext(ctx, "Failed to authenticate source client", logger.StringField("kind", string(src.Kind)), logger.ErrorField(err))
					authErrs[src.Kind] = err
				}
			}
		}
		if authErrs[src.Kind] == nil {
			usable++
		}
	}

	if usable == 0 {
		if len(authErrs) == 0 {
			return ErrNoUsableSource
		}
		return fmt.Errorf("%w: %w", ErrNoUsableSource, errors.Join(mapValues(authErrs)...))
	}
	return nil
}

// Collect queries every source, keeps the posts that pass the source's score
// threshold, weights their sentiment, and returns them ranked by raw score.
// Failing sources are logged and skipped.
func (f *fetcher) Collect(ctx context.Context, ticker string, progress ProgressFunc) CollectResult {
	buckets := make([][]entity.Post, len(f.sources))
	failed := make([]bool, len(f.sources))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	semaphore := make(chan struct{}, f.maxConcurrent)

	for i, src := range f.sources {
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			posts, err := f.collectSource(ctx, src, ticker)
			if err != nil {
				failed[i] = true
			}
			buckets[i] = posts

			mu.Lock()
			defer mu.Unlock()
			completed++
			if progress != nil {
				progress(dto.SourceProgress{
					Source:    src.Name,
					Completed: completed,
					Total:     len(f.sources),
					Posts:     len(posts),
					Err:       err,
				})
			}
		})
	}
	wg.Wait()

	result := CollectResult{Posts: []entity.Post{}}
	for i, bucket := range buckets {
		result.Posts = append(result.Posts, bucket...)
		if failed[i] {
			result.FailedSources = append(result.FailedSources, f.sources[i].Name)
		}
	}
	sort.SliceStable(result.Posts, func(a, b int) bool {
		return result.Posts[a].Score > result.Posts[b].Score
	})

	f.log.InfoContext(ctx, "Collection complete",
		logger.StringField("ticker", ticker),
		logger.IntField("posts", len(result.Posts)),
		logger.IntField("sources", len(f.sources)),
		logger.IntField("failed_sources", len(result.FailedSources)),
	)
	return result
}

type fetchOutcome struct {
	records []dto.RawRecord
	err     error
}

func (f *fetcher) collectSource(ctx context.Context, src entity.Source, ticker string) ([]entity.Post, error) {
	start := time.Now()

	records, err := f.fetchWithTimeout(ctx, src, ticker)
	if err != nil {
		status := "error"
		if errors.Is(err, repository.ErrTimeout) {
			status = "timeout"
		}
		metrics.RecordFetch(src.Name, status, time.Since(start))
		f.log.ErrorContext(ctx, "Failed to fetch source, skipping",
			logger.StringField("source", src.Name),
			logger.StringField("ticker", ticker),
			logger.ErrorField(err),
		)
		return nil, err
	}
	metrics.RecordFetch(src.Name, "success", time.Since(start))

	posts := make([]entity.Post, 0, len(records))
	for _, raw := range records {
		post, err := f.parser.Parse(raw)
		if err != nil {
			metrics.RecordsRejected.WithLabelValues(src.Name, "parse").Inc()
			f.log.WarnContext(ctx, "Skipping malformed record", logger.StringField("source", src.Name), logger.ErrorField(err))
			continue
		}
		if post.Score < src.MinScore {
			metrics.RecordsRejected.WithLabelValues(src.Name, "min_score").Inc()
			continue
		}
		post.Sentiment *= src.Weight
		posts = append(posts, post)
	}
	metrics.PostsCollected.WithLabelValues(src.Name).Add(float64(len(posts)))

	f.log.DebugContext(ctx, "Processed source",
		logger.StringField("source", src.Name),
		logger.IntField("records", len(records)),
		logger.IntField("kept", len(posts)),
	)
	return posts, nil
}

// fetchWithTimeout bounds one source by the per-source timeout even when the
// client ignores cancellation.
func (f *fetcher) fetchWithTimeout(ctx context.Context, src entity.Source, ticker string) ([]dto.RawRecord, error) {
	client, ok := f.clients[src.Kind]
	if !ok {
		return nil, repository.NewFetchError(src.Name, repository.ErrNetwork, fmt.Errorf("no client for source kind %q", src.Kind))
	}

	sourceCtx, cancel := context.WithTimeout(ctx, f.sourceTimeout)
	defer cancel()

	done := make(chan fetchOutcome, 1)
	utils.GoSafe(func() {
		records, err := client.Fetch(sourceCtx, src, ticker)
		done <- fetchOutcome{records: records, err: err}
	})

	select {
	case out := <-done:
		if out.err != nil {
			var fetchErr *repository.FetchError
			if !errors.As(out.err, &fetchErr) {
				return nil, repository.NewFetchError(src.Name, repository.ErrNetwork, out.err)
			}
			return nil, out.err
		}
		return out.records, nil
	case <-sourceCtx.Done():
		return nil, repository.NewFetchError(src.Name, repository.ErrTimeout, sourceCtx.Err())
	}
}

func mapValues(m map[entity.SourceKind]error) []error {
	out := make([]error, 0, len(m))
	for _, err := range m {
		out = append(out, err)
	}
	return out
}
