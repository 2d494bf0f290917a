package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"
)

func sampleResult() *dto.AnalysisResult {
	return &dto.AnalysisResult{
		Symbol: "AAPL",
		Posts: []entity.Post{
			{Title: "AAPL DD <script>", Score: 500, NumComments: 40, Source: "stocks", Sentiment: 0.8, CreatedUTC: "1700000000", URL: "https://reddit.com/x"},
			{Title: "AAPL puts", Score: 200, NumComments: 10, Source: "wallstreetbets", Sentiment: -0.5},
			{Title: "AAPL meh", Score: 10, Source: "investing"},
		},
		Metrics: entity.AggregateMetrics{
			TotalPosts:        3,
			DeepAnalysisPosts: 1,
			SourceCounts:      map[string]int{"stocks": 1, "wallstreetbets": 1, "investing": 1},
			WeightedSentiment: 0.42,
			Confidence:        0.3,
		},
		Recommendation: entity.RecommendationStrongBuy,
		Rationale:      "High positive sentiment with strong confidence level.",
		FailedSources:  []string{"options"},
		AnalyzedAt:     time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}

func TestHTMLReporter_Render(t *testing.T) {
	r := NewHTMLReporter(t.TempDir(), 2)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleResult()))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "STRONG BUY", doc.Find(".recommendation").Text())
	assert.Equal(t, "3", doc.Find(".total-posts").Text())
	assert.Equal(t, "1", doc.Find(".dd-posts").Text())
	assert.Equal(t, "0.42", doc.Find(".sentiment").Text())
	assert.Equal(t, "30%", doc.Find(".confidence").Text())
	assert.Equal(t, 3, doc.Find(".sources li").Length())
	assert.Contains(t, doc.Find(".failed-sources").Text(), "options")

	posts := doc.Find("#top-posts .post")
	assert.Equal(t, 2, posts.Length(), "only top posts are listed")
	assert.Equal(t, "AAPL DD <script>", posts.First().Find("h3").Text())
	assert.Equal(t, 0, doc.Find("#top-posts script").Length(), "titles are escaped")
	href, ok := posts.First().Find("a").Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "https://reddit.com/x", href)
	assert.True(t, posts.Eq(1).Find("span.negative").Length() == 1)
}

func TestHTMLReporter_RenderEmpty(t *testing.T) {
	r := NewHTMLReporter(t.TempDir(), 10)
	result := &dto.AnalysisResult{
		Symbol:         "ZZZZ",
		Recommendation: entity.RecommendationInsufficientData,
		Metrics:        entity.AggregateMetrics{SourceCounts: map[string]int{}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, result))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "INSUFFICIENT DATA", doc.Find(".recommendation").Text())
	assert.Equal(t, 1, doc.Find(".empty").Length())
	assert.Equal(t, 0, doc.Find(".failed-sources").Length())
}

func TestHTMLReporter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := NewHTMLReporter(dir, 10)

	path, err := r.Write(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AAPL_analysis.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Stock Analysis Report: AAPL")
}
