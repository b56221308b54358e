package domain

import (
	"fmt"
	"time"
)

// Bar is a single OHLCV sample. Bars are immutable once produced; the Series
// that holds them owns them.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	VWAP      float64 // optional, 0 when the source did not provide one
}

// Validate checks the OHLC ordering invariant and volume sign.
func (b Bar) Validate() error {
	if b.Timestamp.IsZero() {
		return fmt.Errorf("bar: zero timestamp")
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s: non-positive price", b.Timestamp.Format(time.RFC3339))
	}
	if b.High < b.Open || b.High < b.Close || b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("bar %s: high/low violate OHLC ordering", b.Timestamp.Format(time.RFC3339))
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s: negative volume", b.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// TypicalPrice returns (high+low+close)/3, the price used for VWAP weighting.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Bullish reports whether the bar closed above its open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Series is a time-ascending sequence of bars for one symbol.
type Series struct {
	Symbol    string
	Timeframe string
	Bars      []Bar
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume column as floats for indicator math.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// Append adds a bar to the series, enforcing strictly increasing timestamps.
func (s *Series) Append(b Bar) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if n := len(s.Bars); n > 0 && !b.Timestamp.After(s.Bars[n-1].Timestamp) {
		return fmt.Errorf("series %s: bar %s not after %s: %w",
			s.Symbol,
			b.Timestamp.Format(time.RFC3339),
			s.Bars[n-1].Timestamp.Format(time.RFC3339),
			ErrOutOfOrder,
		)
	}
	s.Bars = append(s.Bars, b)
	return nil
}

// Validate checks every bar and the timestamp ordering invariant.
func (s *Series) Validate() error {
	for i, b := range s.Bars {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("series %s index %d: %w", s.Symbol, i, err)
		}
		if i > 0 && !b.Timestamp.After(s.Bars[i-1].Timestamp) {
			return fmt.Errorf("series %s index %d: %w", s.Symbol, i, ErrOutOfOrder)
		}
	}
	return nil
}

// Tail returns a sub-series holding the last n bars (the whole series when it
// is shorter than n). The backing array is shared; callers must not mutate.
func (s *Series) Tail(n int) *Series {
	if n >= len(s.Bars) {
		return s
	}
	return &Series{Symbol: s.Symbol, Timeframe: s.Timeframe, Bars: s.Bars[len(s.Bars)-n:]}
}
