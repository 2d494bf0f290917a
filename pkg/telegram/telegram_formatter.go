package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/utils"
)

const maxMessageLen = 4090

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown escapes user content for legacy Markdown parse mode.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func recommendationIcon(r entity.Recommendation) string {
	switch r {
	case entity.RecommendationStrongBuy, entity.RecommendationBuy:
		return "🟢"
	case entity.RecommendationStrongSell, entity.RecommendationSell:
		return "🔴"
	case entity.RecommendationInsufficientData:
		return "⚪"
	default:
		return "🟡"
	}
}

func sentimentIcon(v float64) string {
	switch {
	case v > 0.1:
		return "😊"
	case v < -0.1:
		return "😟"
	default:
		return "😐"
	}
}

// FormatAnalysisMessage formats one analysis result with its topPosts highest-scored posts.
func FormatAnalysisMessage(result *dto.AnalysisResult, topPosts int) string {
	var sb strings.Builder
	m := result.Metrics

	sb.WriteString(fmt.Sprintf("📊 *Reddit Sentiment for %s*\n", result.Symbol))
	sb.WriteString(fmt.Sprintf("%s Signal: *%s*\n\n", recommendationIcon(result.Recommendation), result.Recommendation.Label()))

	sb.WriteString(fmt.Sprintf("%s Sentiment: %.2f\n", sentimentIcon(m.WeightedSentiment), m.WeightedSentiment))
	sb.WriteString(fmt.Sprintf("🎯 Confidence: %.0f%%\n", m.Confidence*100))
	sb.WriteString(fmt.Sprintf("💬 Posts: %d (DD: %d)\n\n", m.TotalPosts, m.DeepAnalysisPosts))

	sb.WriteString(fmt.Sprintf("🧠 *Reasoning:*\n%s\n", EscapeMarkdown(result.Rationale)))

	if len(result.FailedSources) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ Unavailable: %s\n", EscapeMarkdown(strings.Join(result.FailedSources, ", "))))
	}

	if topPosts > 0 && len(result.Posts) > 0 {
		sb.WriteString("\n🔥 *Top posts:*\n")
		for i, post := range result.Posts {
			if i >= topPosts {
				break
			}
			sb.WriteString(fmt.Sprintf("• [%d] %s (r/%s)\n", post.Score, EscapeMarkdown(utils.Truncate(post.Title, 80)), EscapeMarkdown(post.Source)))
		}
	}

	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now()
	}
	sb.WriteString(fmt.Sprintf("\n📅 _Analyzed: %s_\n", utils.PrettyDate(analyzedAt)))

	return sb.String()
}

// FormatWatchlistDigest summarizes several results, splitting into parts that fit one message each.
func FormatWatchlistDigest(results []*dto.AnalysisResult) []string {
	if len(results) == 0 {
		return []string{"No watchlist results for this run."}
	}

	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString("📰 *Watchlist Sentiment Digest* 📰\n\n")
		} else {
			current.WriteString(fmt.Sprintf("---*Watchlist Digest Part %d*---\n\n", part))
		}
	}
	startNewPart()

	for _, r := range results {
		entry := fmt.Sprintf("%s *%s*: %s | sentiment %.2f | confidence %.0f%% | %d posts\n",
			recommendationIcon(r.Recommendation), r.Symbol, r.Recommendation.Label(),
			r.Metrics.WeightedSentiment, r.Metrics.Confidence*100, r.Metrics.TotalPosts)

		if current.Len()+len(entry) > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry)
	}

	messages = append(messages, current.String())
	return messages
}

// FormatErrorAlertMessage formats a failed analysis for the alert chat.
func FormatErrorAlertMessage(t time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf("📛 [ERROR ALERT]\n%s\n🔧 %s\n⚠️ %s\n\n📄 Data: %s\n",
		utils.PrettyDate(t), EscapeMarkdown(errType), EscapeMarkdown(errMsg), EscapeMarkdown(data))
}
