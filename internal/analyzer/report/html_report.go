package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/utils"
)

// Reporter renders an analysis to a persisted artifact. It never feeds back into the pipeline.
type Reporter interface {
	Render(w io.Writer, result *dto.AnalysisResult) error
	Write(result *dto.AnalysisResult) (string, error)
}

type htmlReporter struct {
	dir      string
	topPosts int
	tmpl     *template.Template
}

// NewHTMLReporter renders reports into dir, listing the topPosts highest-scored posts.
func NewHTMLReporter(dir string, topPosts int) Reporter {
	funcs := template.FuncMap{
		"join":    strings.Join,
		"percent": func(v float64) float64 { return v * 100 },
		"sentimentClass": func(v float64) string {
			switch {
			case v > 0:
				return "positive"
			case v < 0:
				return "negative"
			default:
				return "neutral"
			}
		},
	}
	return &htmlReporter{
		dir:      dir,
		topPosts: topPosts,
		tmpl:     template.Must(template.New("report").Funcs(funcs).Parse(reportHTMLTemplate)),
	}
}

type sourceCount struct {
	Name  string
	Count int
}

type postView struct {
	Title       string
	URL         string
	Score       int
	NumComments int
	Source      string
	Sentiment   float64
	Created     string
}

type reportView struct {
	Symbol            string
	GeneratedAt       string
	Recommendation    string
	Rationale         string
	TotalPosts        int
	DeepAnalysisPosts int
	Sentiment         float64
	Confidence        float64
	SourceCounts      []sourceCount
	FailedSources     []string
	Posts             []postView
}

// Render writes the HTML report for result to w.
func (r *htmlReporter) Render(w io.Writer, result *dto.AnalysisResult) error {
	view := reportView{
		Symbol:            result.Symbol,
		GeneratedAt:       utils.PrettyDate(result.AnalyzedAt),
		Recommendation:    result.Recommendation.Label(),
		Rationale:         result.Rationale,
		TotalPosts:        result.Metrics.TotalPosts,
		DeepAnalysisPosts: result.Metrics.DeepAnalysisPosts,
		Sentiment:         result.Metrics.WeightedSentiment,
		Confidence:        result.Metrics.Confidence,
		FailedSources:     result.FailedSources,
	}
	if result.AnalyzedAt.IsZero() {
		view.GeneratedAt = utils.PrettyDate(time.Now())
	}

	for name, count := range result.Metrics.SourceCounts {
		view.SourceCounts = append(view.SourceCounts, sourceCount{Name: name, Count: count})
	}
	sort.Slice(view.SourceCounts, func(i, j int) bool { return view.SourceCounts[i].Name < view.SourceCounts[j].Name })

	// posts arrive ranked by raw score
	for i, post := range result.Posts {
		if i >= r.topPosts {
			break
		}
		pv := postView{
			Title:       post.Title,
			URL:         post.URL,
			Score:       post.Score,
			NumComments: post.NumComments,
			Source:      post.Source,
			Sentiment:   post.Sentiment,
		}
		if created, ok := utils.ParseEpoch(post.CreatedUTC); ok {
			pv.Created = utils.PrettyDate(created)
		}
		view.Posts = append(view.Posts, pv)
	}

	if err := r.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render report template: %w", err)
	}
	return nil
}

// Write renders result to <dir>/<SYMBOL>_analysis.html and returns the path.
func (r *htmlReporter) Write(result *dto.AnalysisResult) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, result); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(r.dir, result.Symbol+"_analysis.html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
