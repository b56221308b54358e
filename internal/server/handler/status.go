package handler

import (
	"net/http"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// RiskReporter provides the risk snapshot included in status responses.
type RiskReporter interface {
	Report() domain.RiskReport
}

// StatusHandler serves a runtime status snapshot for dashboards.
type StatusHandler struct {
	mode      string
	symbol    string
	startedAt time.Time
	risk      RiskReporter // optional
}

// NewStatusHandler creates a StatusHandler. risk may be nil when no risk
// manager is running (backtest mode).
func NewStatusHandler(mode, symbol string, startedAt time.Time, risk RiskReporter) *StatusHandler {
	return &StatusHandler{
		mode:      mode,
		symbol:    symbol,
		startedAt: startedAt,
		risk:      risk,
	}
}

// Status responds with mode, symbol, uptime, and current risk utilisation.
// GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"mode":           h.mode,
		"symbol":         h.symbol,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}
	if h.risk != nil {
		report := h.risk.Report()
		body["risk"] = map[string]any{
			"trades_today":     report.State.TradesToday,
			"trades_limit":     report.TradesLimit,
			"pnl_today":        report.State.PnLToday,
			"open_positions":   report.State.OpenPositions,
			"positions_limit":  report.PositionsLimit,
			"daily_loss_used":  report.DailyLossUsed,
			"daily_loss_limit": report.DailyLossLimit,
		}
	}
	writeJSON(w, http.StatusOK, body)
}
