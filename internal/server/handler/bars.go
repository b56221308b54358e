package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// BarSource provides the recent bar window and last signal for the API. The
// live simulator satisfies this.
type BarSource interface {
	Snapshot(n int) ([]domain.Bar, domain.Signal)
}

// BarsHandler serves the recent bar window and the latest signal.
type BarsHandler struct {
	source BarSource
	logger *slog.Logger
}

// NewBarsHandler creates a BarsHandler backed by the given source.
func NewBarsHandler(source BarSource, logger *slog.Logger) *BarsHandler {
	return &BarsHandler{source: source, logger: logger}
}

// ListBars responds with up to limit recent bars, oldest first.
// GET /api/bars?limit=N
func (h *BarsHandler) ListBars(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		writeError(w, http.StatusServiceUnavailable, "live feed not running")
		return
	}

	limit := parseLimit(r, 100, 1000)
	bars, _ := h.source.Snapshot(limit)

	out := make([]map[string]any, 0, len(bars))
	for _, b := range bars {
		out = append(out, map[string]any{
			"timestamp": b.Timestamp.Format(time.RFC3339),
			"open":      b.Open,
			"high":      b.High,
			"low":       b.Low,
			"close":     b.Close,
			"volume":    b.Volume,
			"vwap":      b.VWAP,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(out),
		"bars":  out,
	})
}

// LatestSignal responds with the most recently computed signal.
// GET /api/signal
func (h *BarsHandler) LatestSignal(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		writeError(w, http.StatusServiceUnavailable, "live feed not running")
		return
	}

	_, sig := h.source.Snapshot(1)
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":   sig.Timestamp.Format(time.RFC3339),
		"price":       sig.Price,
		"signal_type": sig.Type,
		"strength":    sig.Strength,
		"active":      sig.Active(),
	})
}
