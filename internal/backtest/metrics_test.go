package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

func curveOf(equities ...float64) []domain.EquityPoint {
	start := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	out := make([]domain.EquityPoint, len(equities))
	for i, e := range equities {
		out[i] = domain.EquityPoint{Timestamp: start.Add(time.Duration(i) * time.Minute), Equity: e}
	}
	return out
}

func TestSummarizeEmptyTrades(t *testing.T) {
	s := summarize(nil, nil, 100000, 100000)
	assert.Zero(t, s.TotalTrades)
	assert.Zero(t, s.TotalPnL)
	assert.Zero(t, s.ProfitFactor)
}

func TestSummarizeAggregates(t *testing.T) {
	trades := []domain.Trade{
		{PnL: 100, HoldTimeMinutes: 2},
		{PnL: -50, HoldTimeMinutes: 4},
	}
	s := summarize(trades, nil, 100000, 100050)

	require.Equal(t, 2, s.TotalTrades)
	assert.Equal(t, 1, s.WinningTrades)
	assert.Equal(t, 1, s.LosingTrades)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 50.0, s.TotalPnL, 1e-9)
	assert.InDelta(t, 100.0, s.GrossProfit, 1e-9)
	assert.InDelta(t, 50.0, s.GrossLoss, 1e-9)
	assert.InDelta(t, 2.0, s.ProfitFactor, 1e-9)
	assert.InDelta(t, 100.0, s.AvgWin, 1e-9)
	assert.InDelta(t, -50.0, s.AvgLoss, 1e-9)
	assert.InDelta(t, 3.0, s.AvgHoldTimeMins, 1e-9)
	assert.InDelta(t, 0.05, s.TotalReturnPct, 1e-9)
}

func TestSummarizeProfitFactorSaturates(t *testing.T) {
	trades := []domain.Trade{{PnL: 100}, {PnL: 200}}
	s := summarize(trades, nil, 100000, 100300)
	assert.True(t, math.IsInf(s.ProfitFactor, 1))
}

func TestMaxDrawdownPct(t *testing.T) {
	// Peak 120, trough 90: 25% drawdown.
	assert.InDelta(t, 25.0, maxDrawdownPct(curveOf(100, 120, 90, 110)), 1e-9)

	// Monotonic rise has no drawdown.
	assert.Zero(t, maxDrawdownPct(curveOf(100, 110, 120)))

	// New highs reset the peak.
	assert.InDelta(t, 10.0, maxDrawdownPct(curveOf(100, 90, 130, 117)), 1e-9)
}

func TestSharpeRatioDegenerateCurves(t *testing.T) {
	assert.Zero(t, sharpeRatio(nil))
	assert.Zero(t, sharpeRatio(curveOf(100)))
	// Constant percentage growth has zero deviation.
	assert.Zero(t, sharpeRatio(curveOf(100, 110, 121)))
	// Flat equity likewise.
	assert.Zero(t, sharpeRatio(curveOf(100, 100, 100)))
}

func TestSharpeRatioKnownCurve(t *testing.T) {
	// Returns +10% then -1/22: mean 0.0272727, sample std 0.1028519.
	got := sharpeRatio(curveOf(100, 110, 105))
	assert.InDelta(t, 4.2094, got, 1e-3)
}
