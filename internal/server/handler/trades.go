package handler

import (
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// TradesHandler serves recently archived trades from the trade store.
type TradesHandler struct {
	store  domain.TradeStore // optional
	logger *slog.Logger
}

// NewTradesHandler creates a TradesHandler. store may be nil when persistence
// is disabled.
func NewTradesHandler(store domain.TradeStore, logger *slog.Logger) *TradesHandler {
	return &TradesHandler{store: store, logger: logger}
}

// ListRecent responds with the most recently entered trades, newest first.
// GET /api/trades?limit=N
func (h *TradesHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "trade persistence disabled")
		return
	}

	limit := parseLimit(r, 50, 500)
	trades, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list trades failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(trades),
		"trades": trades,
	})
}
