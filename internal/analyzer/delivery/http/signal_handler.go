package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"
)

const (
	defaultSignalLimit = 20
	maxSignalLimit     = 500
)

// SignalHandler serves stored analysis history.
type SignalHandler struct {
	analyzerService service.AnalyzerService
	logger          *logger.Logger
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(analyzerService service.AnalyzerService, logger *logger.Logger) *SignalHandler {
	return &SignalHandler{analyzerService: analyzerService, logger: logger}
}

// RegisterRoutes registers the signal routes to the Echo group.
func (h *SignalHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.GetSignals)
}

// GetSignals godoc
// @Summary List stored signals
// @Description Get stored analysis outcomes for a ticker, newest first
// @Tags signals
// @Produce  json
// @Param   symbol  path   string true  "Ticker symbol, letters only"
// @Param   limit   query  int    false "Maximum number of signals" default(20)
// @Success 200 {array} entity.SentimentSignal
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /signals/{symbol} [get]
func (h *SignalHandler) GetSignals(c echo.Context) error {
	limit := defaultSignalLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = min(parsed, maxSignalLimit)
	}

	signals, err := h.analyzerService.History(c.Request().Context(), c.Param("symbol"), limit)
	switch {
	case errors.Is(err, service.ErrInvalidSymbol):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrHistoryDisabled):
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
	case err != nil:
		h.logger.Error("Failed to get signals", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get signals"})
	}
	return c.JSON(http.StatusOK, signals)
}
