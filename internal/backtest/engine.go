// Package backtest replays precomputed signals against a historical OHLCV
// series in a single chronological pass, simulating ITM option positions and
// aggregating the closed trades into summary statistics.
package backtest

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/scalpbot/internal/domain"
	"github.com/alanyoungcy/scalpbot/internal/strategy"
)

// Engine runs backtests. It is single-threaded and synchronous: signals are
// generated once up front, then bars are replayed in order with no
// re-evaluation, so the design is look-ahead safe but not reactive.
type Engine struct {
	cfg            Config
	scalper        *strategy.Scalper
	initialCapital float64
}

// New validates cfg and returns an Engine that uses the given scalper for
// signal generation.
func New(cfg Config, scalper *strategy.Scalper, initialCapital float64) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if initialCapital <= 0 {
		return nil, fmt.Errorf("backtest: initial capital must be positive: %w", domain.ErrInvalidConfig)
	}
	return &Engine{cfg: cfg, scalper: scalper, initialCapital: initialCapital}, nil
}

// premium computes the synthetic ITM option premium: intrinsic value floored
// at zero plus a flat time-value term proportional to spot.
func (e *Engine) premium(spot, strike float64, opt domain.OptionType) float64 {
	var intrinsic float64
	if opt == domain.OptionCE {
		intrinsic = math.Max(0, spot-strike)
	} else {
		intrinsic = math.Max(0, strike-spot)
	}
	return intrinsic + spot*e.cfg.PremiumFactor
}

// strike returns the ITM strike for the given spot: below spot for calls,
// above for puts, rounded to the nearest point.
func (e *Engine) strike(spot float64, opt domain.OptionType) float64 {
	if opt == domain.OptionCE {
		return math.Round(spot - e.cfg.StrikeOffset)
	}
	return math.Round(spot + e.cfg.StrikeOffset)
}

// Run backtests the full series. A series too short for the strategy, or one
// that produces no qualifying signals, yields a valid zero-trade result
// rather than an error.
func (e *Engine) Run(series *domain.Series) (*domain.BacktestResult, error) {
	startedAt := time.Now().UTC()
	capital := e.initialCapital

	res := &domain.BacktestResult{
		Symbol:         series.Symbol,
		InitialCapital: e.initialCapital,
		FinalCapital:   capital,
		ExitReasons:    map[domain.ExitReason]int{},
		StartedAt:      startedAt,
	}

	analysis, err := e.scalper.GenerateSignals(series)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			res.FinishedAt = time.Now().UTC()
			return res, nil
		}
		return nil, err
	}
	if len(analysis.ActiveSignals()) == 0 {
		res.FinishedAt = time.Now().UTC()
		return res, nil
	}

	var open []*domain.Position

	for i, bar := range series.Bars {
		sig := analysis.Signals[i]

		// Exits first. Iterate over a snapshot so closes can shrink the list.
		remaining := open[:0]
		for _, pos := range open {
			holdMinutes := bar.Timestamp.Sub(pos.EntryTime).Minutes()
			exit, reason, exitPremium := e.checkExit(pos, sig, bar.Close, holdMinutes)
			if !exit {
				remaining = append(remaining, pos)
				continue
			}
			e.closePosition(pos, bar.Timestamp, exitPremium, reason, holdMinutes)
			capital += pos.PnL
			res.Trades = append(res.Trades, *pos)
			res.ExitReasons[reason]++
		}
		open = remaining

		// Entry on a qualifying signal, subject to the position and capital
		// limits.
		if sig.Active() && len(open) < e.cfg.MaxPositions && capital > e.cfg.PositionSizePerTrade {
			open = append(open, e.openPosition(sig, bar, i))
		}

		// Equity sample: realized capital plus unrealized PnL of open legs.
		var unrealized float64
		for _, pos := range open {
			cur := e.premium(bar.Close, pos.Strike, pos.OptionType)
			unrealized += (cur - pos.EntryPremium) * float64(pos.Quantity) * float64(e.cfg.OptionMultiplier)
		}
		res.EquityCurve = append(res.EquityCurve, domain.EquityPoint{
			Timestamp:     bar.Timestamp,
			Equity:        capital + unrealized,
			RealizedPnL:   capital - e.initialCapital,
			UnrealizedPnL: unrealized,
			OpenPositions: len(open),
		})
	}

	// Force-close whatever is still open at the final bar.
	if n := series.Len(); n > 0 {
		last := series.Bars[n-1]
		for _, pos := range open {
			exitPremium := e.premium(last.Close, pos.Strike, pos.OptionType)
			holdMinutes := last.Timestamp.Sub(pos.EntryTime).Minutes()
			e.closePosition(pos, last.Timestamp, exitPremium, domain.ExitEndOfData, holdMinutes)
			capital += pos.PnL
			res.Trades = append(res.Trades, *pos)
			res.ExitReasons[domain.ExitEndOfData]++
		}
	}

	res.FinalCapital = capital
	res.Summary = summarize(res.Trades, res.EquityCurve, e.initialCapital, capital)
	res.FinishedAt = time.Now().UTC()
	return res, nil
}

// openPosition creates an OPEN position from a qualifying signal. The entry
// premium carries the slippage cost; quantity floors at one lot.
func (e *Engine) openPosition(sig domain.Signal, bar domain.Bar, index int) *domain.Position {
	opt := domain.OptionCE
	if sig.Type == domain.SignalBuyPE {
		opt = domain.OptionPE
	}
	strike := e.strike(bar.Close, opt)
	entryPremium := e.premium(bar.Close, strike, opt) + e.cfg.SlippagePoints

	qty := int(e.cfg.PositionSizePerTrade / (entryPremium * float64(e.cfg.OptionMultiplier)))
	if qty < 1 {
		qty = 1
	}

	return &domain.Position{
		ID:             uuid.NewString(),
		EntryTime:      bar.Timestamp,
		EntryIndex:     index,
		SignalType:     sig.Type,
		OptionType:     opt,
		Strike:         strike,
		SpotPrice:      bar.Close,
		EntryPremium:   entryPremium,
		Quantity:       qty,
		SignalStrength: sig.Strength,
		Commission:     e.cfg.CommissionPerTrade * 2, // entry + exit
		Status:         domain.PositionOpen,
	}
}

// checkExit evaluates the exit rules for one open position against the
// current bar, in fixed priority order: time limit, stop loss, profit target
// 2, profit target 1, reverse signal. The returned premium excludes slippage;
// closePosition applies it.
func (e *Engine) checkExit(pos *domain.Position, sig domain.Signal, spot float64, holdMinutes float64) (bool, domain.ExitReason, float64) {
	cur := e.premium(spot, pos.Strike, pos.OptionType)
	pnlPoints := cur - pos.EntryPremium

	switch {
	case holdMinutes >= e.cfg.ForceExitMinutes:
		return true, domain.ExitTimeLimit, cur
	case pnlPoints <= -e.cfg.StopLossPoints:
		return true, domain.ExitStopLoss, cur
	case pnlPoints >= e.cfg.ProfitTarget2:
		return true, domain.ExitProfitTarget2, cur
	case pnlPoints >= e.cfg.ProfitTarget1:
		return true, domain.ExitProfitTarget1, cur
	case sig.Active() && sig.Type == pos.SignalType.Opposite() && sig.Strength > e.cfg.ReverseSignalStrength:
		return true, domain.ExitReverseSignal, cur
	}
	return false, "", cur
}

// closePosition fills the exit fields and computes PnL. Exit slippage comes
// off the fill premium; commission covers the round trip.
func (e *Engine) closePosition(pos *domain.Position, ts time.Time, premium float64, reason domain.ExitReason, holdMinutes float64) {
	pos.ExitTime = ts
	pos.ExitPremium = premium - e.cfg.SlippagePoints
	pos.ExitReason = reason
	pos.HoldTimeMinutes = holdMinutes
	pos.Status = domain.PositionClosed

	pos.PnLPoints = pos.ExitPremium - pos.EntryPremium
	pos.PnL = pos.PnLPoints*float64(pos.Quantity)*float64(e.cfg.OptionMultiplier) - pos.Commission
}
