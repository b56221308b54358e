package domain

import "time"

// SignalType identifies the direction of a generated trading signal.
type SignalType string

const (
	SignalNone  SignalType = "NONE"
	SignalBuyCE SignalType = "BUY_CE" // bullish, buy an ITM call
	SignalBuyPE SignalType = "BUY_PE" // bearish, buy an ITM put
)

// Signal is the per-bar output of the scalping strategy. Strength is the
// fraction of entry conditions met, in [0,1]; signals below the configured
// confidence floor are suppressed to SignalNone with strength 0. Signals are
// immutable once emitted.
type Signal struct {
	Timestamp time.Time
	Price     float64 // close of the originating bar
	Type      SignalType
	Strength  float64
}

// Active reports whether the signal requests an entry.
func (s Signal) Active() bool { return s.Type != SignalNone }

// Opposite returns the reverse direction, or SignalNone for NONE.
func (t SignalType) Opposite() SignalType {
	switch t {
	case SignalBuyCE:
		return SignalBuyPE
	case SignalBuyPE:
		return SignalBuyCE
	default:
		return SignalNone
	}
}
