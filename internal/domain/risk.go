package domain

// RiskState holds the session-scoped day counters consumed by the risk
// manager. It is reset explicitly via ResetDay at the start of each simulated
// trading day; there is no automatic day-rollover detection.
type RiskState struct {
	TradesToday      int
	PnLToday         float64
	MaxDrawdownToday float64 // most negative running PnLToday
	StartCapital     float64
	OpenPositions    int
}

// RiskDecision is the outcome of a pre-trade check. Rejections are normal
// results, never errors.
type RiskDecision struct {
	Accepted bool
	Reason   string
	Size     float64
}

// RiskReport is a read-only snapshot of limit utilisation for reporting.
type RiskReport struct {
	State          RiskState
	DailyLossUsed  float64 // fraction of start capital lost today, 0 when flat/up
	DailyLossLimit float64
	TradesLimit    int
	PositionsLimit int
}
