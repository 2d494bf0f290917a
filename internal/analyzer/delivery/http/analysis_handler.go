package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

const defaultTopPosts = 10

// Publisher enqueues analysis requests on the stream.
type Publisher interface {
	Publish(ctx context.Context, req dto.StreamDataAnalyze) (string, error)
}

// AnalysisHandler handles HTTP requests for analyses.
type AnalysisHandler struct {
	analyzerService service.AnalyzerService
	publisher       Publisher
	topPosts        int
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler. publisher may be nil when Redis is disabled.
func NewAnalysisHandler(analyzerService service.AnalyzerService, publisher Publisher, topPosts int, logger *logger.Logger) *AnalysisHandler {
	if topPosts <= 0 {
		topPosts = defaultTopPosts
	}
	return &AnalysisHandler{analyzerService: analyzerService, publisher: publisher, topPosts: topPosts, logger: logger}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.Analyze)
	g.POST("/:symbol/queue", h.Queue)
}

// Analyze godoc
// @Summary Analyze a ticker
// @Description Collects posts for the ticker from every configured source and returns the verdict
// @Tags analysis
// @Produce  json
// @Param   symbol  path   string true  "Ticker symbol, letters only"
// @Param   notify  query  bool   false "Send the verdict to Telegram"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analysis/{symbol} [get]
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	notify, _ := strconv.ParseBool(c.QueryParam("notify"))

	result, err := h.analyzerService.Analyze(c.Request().Context(), c.Param("symbol"), service.AnalyzeOptions{Notify: notify})
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toAnalysisResponse(result, h.topPosts))
}

// Queue godoc
// @Summary Queue a ticker analysis
// @Description Publishes an analysis request to the worker stream
// @Tags analysis
// @Produce  json
// @Param   symbol  path   string true  "Ticker symbol, letters only"
// @Param   notify  query  bool   false "Send the verdict to Telegram"
// @Success 202 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /analysis/{symbol}/queue [post]
func (h *AnalysisHandler) Queue(c echo.Context) error {
	if h.publisher == nil {
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "analysis queue is disabled"})
	}
	symbol, ok := utils.NormalizeSymbol(c.Param("symbol"))
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: service.ErrInvalidSymbol.Error()})
	}
	notify, _ := strconv.ParseBool(c.QueryParam("notify"))

	id, err := h.publisher.Publish(c.Request().Context(), dto.StreamDataAnalyze{Symbol: symbol, Notify: notify})
	if err != nil {
		h.logger.Error("Failed to queue analysis", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to queue analysis"})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"symbol": symbol, "message_id": id})
}

func (h *AnalysisHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidSymbol):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNoUsableSource):
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("Analysis failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Analysis failed"})
	}
}

func toAnalysisResponse(result *dto.AnalysisResult, topPosts int) dto.AnalysisResponse {
	posts := result.Posts
	if len(posts) > topPosts {
		posts = posts[:topPosts]
	}
	failed := result.FailedSources
	if failed == nil {
		failed = []string{}
	}
	return dto.AnalysisResponse{
		Symbol:            result.Symbol,
		Recommendation:    string(result.Recommendation),
		Rationale:         result.Rationale,
		TotalPosts:        result.Metrics.TotalPosts,
		DeepAnalysisPosts: result.Metrics.DeepAnalysisPosts,
		WeightedSentiment: result.Metrics.WeightedSentiment,
		Confidence:        result.Metrics.Confidence,
		SourceCounts:      result.Metrics.SourceCounts,
		FailedSources:     failed,
		TopPosts:          posts,
		AnalyzedAt:        result.AnalyzedAt,
	}
}
