package handler

import (
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// ResultSource exposes the most recent backtest result held in memory.
type ResultSource interface {
	LatestResult() (domain.BacktestResult, bool)
}

// ResultHandler serves the latest backtest result.
type ResultHandler struct {
	source ResultSource
	logger *slog.Logger
}

// NewResultHandler creates a ResultHandler backed by the given source.
func NewResultHandler(source ResultSource, logger *slog.Logger) *ResultHandler {
	return &ResultHandler{source: source, logger: logger}
}

// LatestResult responds with the full result of the most recent backtest run,
// or 404 when none has completed yet.
// GET /api/backtest/result
func (h *ResultHandler) LatestResult(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		writeError(w, http.StatusServiceUnavailable, "backtest results not available")
		return
	}

	result, ok := h.source.LatestResult()
	if !ok {
		writeError(w, http.StatusNotFound, "no backtest has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
