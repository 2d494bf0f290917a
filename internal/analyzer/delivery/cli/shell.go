package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

const (
	prompt        = "\nEnter command or stock symbol: "
	progressWidth = 50
)

const helpText = `
=== Stock Sentiment Analyzer ===
Commands:
  analyze <symbol>     - Analyze stock sentiment (e.g., 'analyze TSLA')
  <symbol>             - Same as analyze
  help                 - Display this help
  quit                 - Exit program
`

// Shell is the interactive command loop. A failed analysis is reported and the loop continues.
type Shell struct {
	analyzer service.AnalyzerService
	in       io.Reader
	out      io.Writer
	log      *logger.Logger
	notify   bool
	mu       sync.Mutex
}

// NewShell creates a Shell reading commands from in and writing to out.
func NewShell(analyzer service.AnalyzerService, in io.Reader, out io.Writer, log *logger.Logger, notify bool) *Shell {
	return &Shell{analyzer: analyzer, in: in, out: out, log: log, notify: notify}
}

// Run reads commands until quit, end of input, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.printf("=== Stock Sentiment Analyzer ===\n\n")
	s.printf("Type 'help' for commands or directly enter a stock symbol (e.g., 'TSLA')\n")

	scanner := bufio.NewScanner(s.in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.printf(prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		if quit := s.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// Execute handles one input line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.ToUpper(strings.TrimSpace(line))
	if input == "" {
		return false
	}

	switch {
	case input == "QUIT" || input == "EXIT":
		return true
	case input == "HELP":
		s.printf("%s", helpText)
	case input == "ANALYZE":
		s.printf("Please provide a stock symbol (e.g., analyze TSLA)\n")
	case strings.HasPrefix(input, "ANALYZE "):
		s.analyze(ctx, strings.TrimSpace(strings.TrimPrefix(input, "ANALYZE ")))
	default:
		s.analyze(ctx, input)
	}
	return false
}

func (s *Shell) analyze(ctx context.Context, raw string) {
	symbol, ok := utils.NormalizeSymbol(raw)
	if !ok {
		s.printf("Invalid stock symbol. Please enter a valid symbol (e.g., TSLA)\n")
		return
	}

	s.printf("\nAnalyzing %s...\n", symbol)
	result, err := s.analyzer.Analyze(ctx, symbol, service.AnalyzeOptions{
		Notify:   s.notify,
		Progress: s.progress,
	})
	if err != nil {
		s.log.Error("Analysis failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		s.printf("\nError: %v\n", err)
		return
	}
	s.printResult(result)
}

func (s *Shell) progress(p dto.SourceProgress) {
	percent := 100
	if p.Total > 0 {
		percent = p.Completed * 100 / p.Total
	}
	filled := percent * progressWidth / 100
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", progressWidth-filled)
	s.printf("\r[%s] %d%%", bar, percent)
}

func (s *Shell) printResult(r *dto.AnalysisResult) {
	m := r.Metrics
	s.printf("\n\nAnalysis complete!\n\n")
	s.printf("=== %s Analysis Results ===\n", r.Symbol)
	s.printf("Total Posts: %d\n", m.TotalPosts)
	s.printf("DD Posts: %d\n", m.DeepAnalysisPosts)
	s.printf("Sentiment: %.2f\n", m.WeightedSentiment)
	s.printf("Confidence: %.2f%%\n\n", m.Confidence*100)

	if len(m.SourceCounts) > 0 {
		names := make([]string, 0, len(m.SourceCounts))
		for name := range m.SourceCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		s.printf("Source Breakdown:\n")
		for _, name := range names {
			s.printf("%s: %d posts\n", name, m.SourceCounts[name])
		}
	}
	if len(r.FailedSources) > 0 {
		s.printf("Unavailable sources: %s\n", strings.Join(r.FailedSources, ", "))
	}

	s.printf("\nRECOMMENDATION: %s\n", r.Recommendation.Label())
	s.printf("REASONING: %s\n\n", r.Rationale)
	if r.ReportPath != "" {
		s.printf("Detailed report saved to: %s\n", r.ReportPath)
	}
}

// progress callbacks may race with the main loop output
func (s *Shell) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
