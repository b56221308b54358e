package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(discardLogger())
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

type stubRisk struct{ report domain.RiskReport }

func (s stubRisk) Report() domain.RiskReport { return s.report }

func TestStatusWithoutRisk(t *testing.T) {
	h := NewStatusHandler("backtest", "NIFTY", time.Now().Add(-90*time.Second), nil)
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "backtest", body["mode"])
	assert.Equal(t, "NIFTY", body["symbol"])
	assert.GreaterOrEqual(t, body["uptime_seconds"].(float64), 90.0)
	assert.NotContains(t, body, "risk")
}

func TestStatusIncludesRiskReport(t *testing.T) {
	h := NewStatusHandler("live", "NIFTY", time.Now(), stubRisk{report: domain.RiskReport{
		State:          domain.RiskState{TradesToday: 4, PnLToday: -1200, OpenPositions: 1},
		DailyLossUsed:  0.012,
		DailyLossLimit: 0.05,
		TradesLimit:    50,
		PositionsLimit: 3,
	}})
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	risk, ok := decodeBody(t, rec)["risk"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4.0, risk["trades_today"])
	assert.Equal(t, -1200.0, risk["pnl_today"])
	assert.Equal(t, 50.0, risk["trades_limit"])
	assert.Equal(t, 0.012, risk["daily_loss_used"])
}

type stubBars struct {
	bars []domain.Bar
	sig  domain.Signal
}

func (s stubBars) Snapshot(n int) ([]domain.Bar, domain.Signal) {
	bars := s.bars
	if n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, s.sig
}

func TestListBars(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)
	source := stubBars{bars: []domain.Bar{
		{Timestamp: ts, Open: 22000, High: 22010, Low: 21990, Close: 22005, Volume: 15000},
		{Timestamp: ts.Add(time.Minute), Open: 22005, High: 22015, Low: 21995, Close: 22010, Volume: 16000},
	}}
	h := NewBarsHandler(source, discardLogger())

	rec := httptest.NewRecorder()
	h.ListBars(rec, httptest.NewRequest(http.MethodGet, "/api/bars", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 2.0, body["count"])
	bars := body["bars"].([]any)
	first := bars[0].(map[string]any)
	assert.Equal(t, "2024-01-05T09:15:00Z", first["timestamp"])
	assert.Equal(t, 22005.0, first["close"])
}

func TestListBarsRespectsLimit(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)
	bars := make([]domain.Bar, 5)
	for i := range bars {
		bars[i] = domain.Bar{Timestamp: ts.Add(time.Duration(i) * time.Minute), Open: 22000, High: 22010, Low: 21990, Close: 22005, Volume: 1000}
	}
	h := NewBarsHandler(stubBars{bars: bars}, discardLogger())

	rec := httptest.NewRecorder()
	h.ListBars(rec, httptest.NewRequest(http.MethodGet, "/api/bars?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, decodeBody(t, rec)["count"])
}

func TestListBarsNoSource(t *testing.T) {
	h := NewBarsHandler(nil, discardLogger())
	rec := httptest.NewRecorder()
	h.ListBars(rec, httptest.NewRequest(http.MethodGet, "/api/bars", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLatestSignal(t *testing.T) {
	sig := domain.Signal{
		Timestamp: time.Date(2024, 1, 5, 12, 20, 0, 0, time.UTC),
		Price:     22040,
		Type:      domain.SignalBuyCE,
		Strength:  0.833,
	}
	h := NewBarsHandler(stubBars{sig: sig}, discardLogger())

	rec := httptest.NewRecorder()
	h.LatestSignal(rec, httptest.NewRequest(http.MethodGet, "/api/signal", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, string(domain.SignalBuyCE), body["signal_type"])
	assert.Equal(t, true, body["active"])
	assert.Equal(t, 0.833, body["strength"])
}

type stubResult struct {
	result domain.BacktestResult
	ok     bool
}

func (s stubResult) LatestResult() (domain.BacktestResult, bool) { return s.result, s.ok }

func TestLatestResultNotReady(t *testing.T) {
	h := NewResultHandler(stubResult{}, discardLogger())
	rec := httptest.NewRecorder()
	h.LatestResult(rec, httptest.NewRequest(http.MethodGet, "/api/backtest/result", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "no backtest")
}

func TestLatestResultReturnsStoredRun(t *testing.T) {
	h := NewResultHandler(stubResult{ok: true, result: domain.BacktestResult{
		Symbol:         "NIFTY",
		InitialCapital: 100000,
		FinalCapital:   100650,
		Summary:        domain.Summary{TotalTrades: 1, WinningTrades: 1, WinRate: 1},
	}}, discardLogger())

	rec := httptest.NewRecorder()
	h.LatestResult(rec, httptest.NewRequest(http.MethodGet, "/api/backtest/result", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "NIFTY", body["Symbol"])
	assert.Equal(t, 100650.0, body["FinalCapital"])
}

type stubTradeStore struct {
	trades []domain.Trade
	err    error
	limit  int
}

func (s *stubTradeStore) Insert(context.Context, string, domain.Trade) error        { return nil }
func (s *stubTradeStore) UpdateExit(context.Context, string, domain.Trade) error    { return nil }
func (s *stubTradeStore) ListRecent(_ context.Context, limit int) ([]domain.Trade, error) {
	s.limit = limit
	return s.trades, s.err
}

func TestListTradesDisabled(t *testing.T) {
	h := NewTradesHandler(nil, discardLogger())
	rec := httptest.NewRecorder()
	h.ListRecent(rec, httptest.NewRequest(http.MethodGet, "/api/trades", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "persistence disabled")
}

func TestListTrades(t *testing.T) {
	store := &stubTradeStore{trades: []domain.Trade{{ID: "t-1", PnL: 650}}}
	h := NewTradesHandler(store, discardLogger())

	rec := httptest.NewRecorder()
	h.ListRecent(rec, httptest.NewRequest(http.MethodGet, "/api/trades?limit=900", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500, store.limit)
	assert.Equal(t, 1.0, decodeBody(t, rec)["count"])
}

func TestListTradesStoreError(t *testing.T) {
	h := NewTradesHandler(&stubTradeStore{err: errors.New("boom")}, discardLogger())
	rec := httptest.NewRecorder()
	h.ListRecent(rec, httptest.NewRequest(http.MethodGet, "/api/trades", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseLimit(t *testing.T) {
	req := func(q string) *http.Request { return httptest.NewRequest(http.MethodGet, "/x"+q, nil) }

	assert.Equal(t, 50, parseLimit(req(""), 50, 500))
	assert.Equal(t, 10, parseLimit(req("?limit=10"), 50, 500))
	assert.Equal(t, 500, parseLimit(req("?limit=9000"), 50, 500))
	assert.Equal(t, 50, parseLimit(req("?limit=0"), 50, 500))
	assert.Equal(t, 50, parseLimit(req("?limit=abc"), 50, 500))
}
