package domain

import "time"

// OptionType is the simulated option leg direction.
type OptionType string

const (
	OptionCE OptionType = "CE" // call
	OptionPE OptionType = "PE" // put
)

// PositionStatus tracks the open/closed state machine. Closed is terminal;
// positions are never re-opened.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "OPEN"
	PositionClosed PositionStatus = "CLOSED"
)

// ExitReason explains why a simulated position was closed.
type ExitReason string

const (
	ExitTimeLimit     ExitReason = "time_limit"
	ExitStopLoss      ExitReason = "stop_loss"
	ExitProfitTarget1 ExitReason = "profit_target_1"
	ExitProfitTarget2 ExitReason = "profit_target_2"
	ExitReverseSignal ExitReason = "reverse_signal"
	ExitEndOfData     ExitReason = "end_of_data"
)

// Position is a simulated ITM option leg. Exit fields are zero until the
// position transitions to PositionClosed, at which point the record becomes an
// immutable Trade.
type Position struct {
	ID             string
	EntryTime      time.Time
	EntryIndex     int
	SignalType     SignalType
	OptionType     OptionType
	Strike         float64
	SpotPrice      float64
	EntryPremium   float64
	Quantity       int
	SignalStrength float64
	Commission     float64
	Status         PositionStatus

	ExitTime        time.Time
	ExitPremium     float64
	ExitReason      ExitReason
	PnL             float64
	PnLPoints       float64
	HoldTimeMinutes float64
}

// Trade is a closed position. The backtest appends trades to its result list
// and never mutates them afterwards.
type Trade = Position
