package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const redditTokenCacheKey = "reddit_access_token"

type redditRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	tokenCache     *cache.Cache
}

// NewRedditRepository creates a SourceClient for the Reddit search API using the
// application-only OAuth flow.
func NewRedditRepository(cfg *config.Config, log *logger.Logger, httpClient *http.Client) SourceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	perRequest := time.Minute / time.Duration(cfg.Reddit.MaxRequestPerMinute)
	return &redditRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     httpClient,
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
		tokenCache:     cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Authenticate obtains (or reuses) an access token.
func (r *redditRepository) Authenticate(ctx context.Context) error {
	_, err := r.accessToken(ctx)
	return err
}

// Fetch searches one subreddit for ticker and returns each child post as a raw record.
func (r *redditRepository) Fetch(ctx context.Context, source entity.Source, ticker string) ([]dto.RawRecord, error) {
	token, err := r.accessToken(ctx)
	if err != nil {
		return nil, NewFetchError(source.Name, ErrAuth, err)
	}

	params := url.Values{}
	params.Set("q", ticker)
	params.Set("restrict_sr", "1")
	params.Set("sort", r.cfg.Reddit.Sort)
	params.Set("t", r.cfg.Reddit.TimeWindow)
	params.Set("limit", strconv.Itoa(r.cfg.Reddit.SearchLimit))
	params.Set("type", "link")
	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", strings.TrimRight(r.cfg.Reddit.BaseURL, "/"), url.PathEscape(source.Name), params.Encode())

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, NewFetchError(source.Name, ErrNetwork, fmt.Errorf("failed to wait for request limit: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewFetchError(source.Name, ErrNetwork, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", r.cfg.Reddit.UserAgent)

	r.log.DebugContext(ctx, "Searching subreddit", logger.StringField("source", source.Name), logger.StringField("url", endpoint))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, NewFetchError(source.Name, ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// token may have been revoked early; the next fetch requests a fresh one
		r.tokenCache.Delete(redditTokenCacheKey)
		return nil, NewFetchError(source.Name, ErrAuth, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewFetchError(source.Name, ErrStatus, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewFetchError(source.Name, ErrNetwork, fmt.Errorf("failed to read response body: %w", err))
	}

	return decodeListing(source.Name, body)
}

// decodeListing unwraps data.children[].data. A child whose payload is not an object
// becomes an empty record so the parser rejects it on its own.
func decodeListing(sourceName string, body []byte) ([]dto.RawRecord, error) {
	var listing dto.RedditListingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, NewFetchError(sourceName, ErrMalformedEnvelope, err)
	}
	if listing.Data.Children == nil {
		return nil, NewFetchError(sourceName, ErrMalformedEnvelope, fmt.Errorf("listing has no data.children"))
	}

	records := make([]dto.RawRecord, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		record := dto.RawRecord{}
		dec := json.NewDecoder(bytes.NewReader(child.Data))
		dec.UseNumber()
		if err := dec.Decode(&record); err != nil {
			record = dto.RawRecord{}
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *redditRepository) accessToken(ctx context.Context) (string, error) {
	if token, ok := r.tokenCache.Get(redditTokenCacheKey); ok {
		return token.(string), nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Reddit.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}
	req.SetBasicAuth(r.cfg.Reddit.ClientID, r.cfg.Reddit.ClientSecret)
	req.Header.Set("User-Agent", r.cfg.Reddit.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OAuth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(body))
	}

	var oauthResp dto.RedditOAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("OAuth response has no access_token (error=%q)", oauthResp.Error)
	}

	ttl := time.Duration(oauthResp.ExpiresIn)*time.Second - time.Minute
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	r.tokenCache.Set(redditTokenCacheKey, oauthResp.AccessToken, ttl)

	r.log.Info("Reddit access token obtained", logger.IntField("expires_in", oauthResp.ExpiresIn))
	return oauthResp.AccessToken, nil
}
