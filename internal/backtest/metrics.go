package backtest

import (
	"math"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// annualization is the trading-day factor applied to the Sharpe-like ratio.
const annualization = 252

// summarize aggregates closed trades and the equity curve into the headline
// statistics. Profit factor saturates to +Inf when gross loss is zero.
func summarize(trades []domain.Trade, curve []domain.EquityPoint, initial, final float64) domain.Summary {
	s := domain.Summary{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return s
	}

	var holdSum float64
	for _, t := range trades {
		s.TotalPnL += t.PnL
		holdSum += t.HoldTimeMinutes
		switch {
		case t.PnL > 0:
			s.WinningTrades++
			s.GrossProfit += t.PnL
		case t.PnL < 0:
			s.LosingTrades++
			s.GrossLoss += -t.PnL
		}
	}

	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades)
	s.TotalReturnPct = (final/initial - 1) * 100
	s.AvgHoldTimeMins = holdSum / float64(s.TotalTrades)

	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	} else {
		s.ProfitFactor = math.Inf(1)
	}
	if s.WinningTrades > 0 {
		s.AvgWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = -s.GrossLoss / float64(s.LosingTrades)
	}

	s.MaxDrawdownPct = maxDrawdownPct(curve)
	s.SharpeRatio = sharpeRatio(curve)
	return s
}

// maxDrawdownPct returns the largest peak-to-trough equity decline as a
// percentage of the running peak.
func maxDrawdownPct(curve []domain.EquityPoint) float64 {
	var peak, maxDD float64
	for i, p := range curve {
		if i == 0 || p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD * 100
}

// sharpeRatio computes the simplified Sharpe-like ratio: mean over standard
// deviation of per-bar equity percent changes, scaled by sqrt(252). A flat
// curve (zero deviation) reads 0.
func sharpeRatio(curve []domain.EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	// Sample standard deviation, matching the pct-change convention used by
	// the reporting layer.
	variance /= float64(len(returns) - 1)
	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(annualization)
}
