package repository

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

type rssRepository struct {
	log    *logger.Logger
	parser *gofeed.Parser
}

// NewRSSRepository creates a credential-free SourceClient that reads a search feed.
// Feed items carry no popularity, so their score and comment count are zero.
func NewRSSRepository(cfg *config.Config, log *logger.Logger, httpClient *http.Client) SourceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	fp := gofeed.NewParser()
	fp.Client = httpClient
	fp.UserAgent = cfg.Reddit.UserAgent
	return &rssRepository{log: log, parser: fp}
}

// Fetch reads the source's feed for ticker and maps each item to a raw record.
func (r *rssRepository) Fetch(ctx context.Context, source entity.Source, ticker string) ([]dto.RawRecord, error) {
	feedURL := strings.ReplaceAll(source.FeedURL, "{ticker}", url.QueryEscape(ticker))

	r.log.DebugContext(ctx, "Reading feed", logger.StringField("source", source.Name), logger.StringField("url", feedURL))

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		switch {
		case errors.As(err, &httpErr):
			return nil, NewFetchError(source.Name, ErrStatus, err)
		case errors.Is(err, gofeed.ErrFeedTypeNotDetected):
			return nil, NewFetchError(source.Name, ErrMalformedEnvelope, err)
		default:
			return nil, NewFetchError(source.Name, ErrNetwork, err)
		}
	}

	records := make([]dto.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, itemToRecord(source.Name, item))
	}
	return records, nil
}

func itemToRecord(sourceName string, item *gofeed.Item) dto.RawRecord {
	record := dto.RawRecord{
		"score":        0,
		"num_comments": 0,
		"subreddit":    sourceName,
		"url":          item.Link,
		"selftext":     htmlToText(firstNonEmpty(item.Content, item.Description)),
	}
	if item.Title != "" {
		record["title"] = item.Title
	}
	if item.Author != nil {
		record["author"] = item.Author.Name
	}
	if item.PublishedParsed != nil {
		record["created_utc"] = item.PublishedParsed.Unix()
	}
	return record
}

// htmlToText strips markup from feed bodies so lexicon terms inside tags and
// attributes do not count.
func htmlToText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
