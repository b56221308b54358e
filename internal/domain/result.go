package domain

import "time"

// EquityPoint is one sample of the backtest equity curve, recorded every bar.
type EquityPoint struct {
	Timestamp     time.Time
	Equity        float64 // realized capital + unrealized PnL of open positions
	RealizedPnL   float64
	UnrealizedPnL float64
	OpenPositions int
}

// Summary aggregates closed trades into headline performance statistics.
// ProfitFactor is +Inf when gross loss is zero and at least one trade closed
// in profit.
type Summary struct {
	TotalTrades     int
	WinningTrades   int
	LosingTrades    int
	WinRate         float64
	TotalPnL        float64
	TotalReturnPct  float64
	GrossProfit     float64
	GrossLoss       float64
	ProfitFactor    float64
	AvgWin          float64
	AvgLoss         float64
	MaxDrawdownPct  float64
	SharpeRatio     float64
	AvgHoldTimeMins float64
}

// BacktestResult is the full output of one backtest run. A run over data with
// zero qualifying signals produces a valid zero-trade result, not an error.
type BacktestResult struct {
	Symbol         string
	InitialCapital float64
	FinalCapital   float64
	Summary        Summary
	Trades         []Trade
	EquityCurve    []EquityPoint
	ExitReasons    map[ExitReason]int
	StartedAt      time.Time
	FinishedAt     time.Time
}
